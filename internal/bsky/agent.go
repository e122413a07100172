package bsky

import (
	"context"
	"fmt"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/metrics"
)

// Operation names, used for metrics and log fields.
const (
	OpGetProfile    = "app.bsky.actor.getProfile"
	OpGetFollows    = "app.bsky.graph.getFollows"
	OpGetAuthorFeed = "app.bsky.feed.getAuthorFeed"
)

// Agent is the ClientHandle bound to one authenticated session.
type Agent struct {
	did          string
	client       lexutil.LexClient
	followsLimit int64
}

var _ domain.ClientHandle = (*Agent)(nil)

// NewAgent creates an Agent for the session. followsLimit caps the single
// page of follows that is requested.
func NewAgent(sess auth.Session, followsLimit int64) *Agent {
	return &Agent{
		did:          sess.Sub,
		client:       sess.API,
		followsLimit: followsLimit,
	}
}

// DID implements domain.ClientHandle.
func (a *Agent) DID() string {
	return a.did
}

// GetProfile implements domain.ClientHandle.
func (a *Agent) GetProfile(ctx context.Context, actor string) (domain.ProfileSummary, error) {
	out, err := appbsky.ActorGetProfile(ctx, a.client, actor)
	metrics.ObserveUpstream(OpGetProfile, err)
	if err != nil {
		return domain.ProfileSummary{}, fmt.Errorf("%s %s: %w", OpGetProfile, actor, err)
	}
	return profileFromDetailed(out), nil
}

// GetFollows implements domain.ClientHandle. Only the first page is fetched.
func (a *Agent) GetFollows(ctx context.Context, actor string) (domain.FollowsList, error) {
	out, err := appbsky.GraphGetFollows(ctx, a.client, actor, "", a.followsLimit)
	metrics.ObserveUpstream(OpGetFollows, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", OpGetFollows, actor, err)
	}

	follows := make(domain.FollowsList, 0, len(out.Follows))
	for _, p := range out.Follows {
		if p == nil {
			continue
		}
		follows = append(follows, profileFromView(p))
	}
	return follows, nil
}

// GetAuthorFeed implements domain.ClientHandle.
func (a *Agent) GetAuthorFeed(ctx context.Context, actor string, limit int64, filter string) ([]domain.PostSummary, error) {
	out, err := appbsky.FeedGetAuthorFeed(ctx, a.client, actor, "", filter, false, limit)
	metrics.ObserveUpstream(OpGetAuthorFeed, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", OpGetAuthorFeed, actor, err)
	}

	posts := make([]domain.PostSummary, 0, len(out.Feed))
	for _, item := range out.Feed {
		if item == nil || item.Post == nil {
			continue
		}
		posts = append(posts, postFromView(item.Post))
	}
	return posts, nil
}
