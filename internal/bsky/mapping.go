package bsky

import (
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/nfrund/gridsky/internal/domain"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func profileFromView(p *appbsky.ActorDefs_ProfileView) domain.ProfileSummary {
	return domain.ProfileSummary{
		DID:         p.Did,
		Handle:      p.Handle,
		DisplayName: deref(p.DisplayName),
		Avatar:      deref(p.Avatar),
		Description: deref(p.Description),
	}
}

func profileFromDetailed(p *appbsky.ActorDefs_ProfileViewDetailed) domain.ProfileSummary {
	return domain.ProfileSummary{
		DID:         p.Did,
		Handle:      p.Handle,
		DisplayName: deref(p.DisplayName),
		Avatar:      deref(p.Avatar),
		Description: deref(p.Description),
	}
}

func profileFromBasic(p *appbsky.ActorDefs_ProfileViewBasic) domain.ProfileSummary {
	if p == nil {
		return domain.ProfileSummary{}
	}
	return domain.ProfileSummary{
		DID:         p.Did,
		Handle:      p.Handle,
		DisplayName: deref(p.DisplayName),
		Avatar:      deref(p.Avatar),
	}
}

// postFromView keeps the text of app.bsky.feed.post records and the images of
// app.bsky.embed.images views. Any other record or embed kind is dropped.
func postFromView(pv *appbsky.FeedDefs_PostView) domain.PostSummary {
	post := domain.PostSummary{
		URI:    pv.Uri,
		Author: profileFromBasic(pv.Author),
	}

	if pv.Record != nil {
		if rec, ok := pv.Record.Val.(*appbsky.FeedPost); ok && rec.Text != "" {
			post.Text = rec.Text
			post.HasText = true
		}
	}

	if pv.Embed != nil && pv.Embed.EmbedImages_View != nil {
		for _, img := range pv.Embed.EmbedImages_View.Images {
			if img == nil || img.Thumb == "" {
				continue
			}
			post.Images = append(post.Images, domain.Image{
				Thumb:    img.Thumb,
				Fullsize: img.Fullsize,
				Alt:      img.Alt,
			})
		}
	}
	return post
}
