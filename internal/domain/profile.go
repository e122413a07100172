package domain

import "net/url"

const profileBaseURL = "https://bsky.app/profile/"

// ProfileSummary is the view of an account received from the remote service.
// It is never mutated locally. Optional fields are empty when absent.
type ProfileSummary struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Description string `json:"description,omitempty"`
}

// Name returns the display name, falling back to the handle.
func (p ProfileSummary) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Handle
}

// URL links to the profile on the public web app.
func (p ProfileSummary) URL() string {
	return profileBaseURL + url.PathEscape(p.Handle)
}

// FollowsList is the ordered list of accounts the authenticated user follows,
// in the order the remote service returned them.
type FollowsList []ProfileSummary
