package auth

import (
	"context"
	"net/url"

	lexutil "github.com/bluesky-social/indigo/lex/util"
)

// Session is the authenticated state for one account. The API client is
// bound to the session's tokens; refresh and expiry are handled by the SDK.
type Session struct {
	Sub string // account DID
	ID  string
	API lexutil.LexClient
}

// InitResult is produced when prior authorization state exists. State is set
// only when an interactive flow has just completed.
type InitResult struct {
	Session Session
	State   string
}

// Authorizer is the identity-provider collaborator.
type Authorizer interface {
	// Init completes an interactive flow when params carry a callback, or
	// restores the browser's last active session. A load without a callback
	// while a sign-in is outstanding returns an error wrapping
	// domain.ErrAuthorizationAborted. It returns an error wrapping
	// domain.ErrNoPriorSession when none of these apply.
	Init(ctx context.Context, browserID string, params url.Values) (*InitResult, error)

	// SignIn starts an interactive flow against the provider and returns the
	// URL the browser must be sent to. The flow stays outstanding for the
	// browser until a callback or the next Init. An error wrapping
	// domain.ErrAuthorizationAborted means the user cancelled.
	SignIn(ctx context.Context, browserID, providerHint string) (string, error)

	// SignOut deletes the browser's session and forgets the binding.
	SignOut(ctx context.Context, browserID string) error
}

// IsCallback reports whether params carry an authorization response.
func IsCallback(params url.Values) bool {
	return params.Has("state") && (params.Has("code") || params.Has("error"))
}
