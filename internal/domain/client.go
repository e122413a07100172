package domain

import "context"

// FeedFilterPostsNoReplies restricts an author feed to original posts.
const FeedFilterPostsNoReplies = "posts_no_replies"

// ClientHandle is a configured, read-only client bound to one authenticated
// session. Every view of a page shares the same handle.
type ClientHandle interface {
	// DID returns the account the handle is authenticated as.
	DID() string
	GetProfile(ctx context.Context, actor string) (ProfileSummary, error)
	GetFollows(ctx context.Context, actor string) (FollowsList, error)
	GetAuthorFeed(ctx context.Context, actor string, limit int64, filter string) ([]PostSummary, error)
}
