package agent

import (
	"context"
	"net/url"
	"sync"

	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/domain"
)

// blockingAcquirer returns the outcome sent on its channel.
type blockingAcquirer struct {
	mu       sync.Mutex
	calls    int
	outcomes chan auth.Outcome
}

func newBlockingAcquirer() *blockingAcquirer {
	return &blockingAcquirer{outcomes: make(chan auth.Outcome, 1)}
}

func (a *blockingAcquirer) Acquire(ctx context.Context, browserID string, params url.Values) auth.Outcome {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()

	select {
	case o := <-a.outcomes:
		return o
	case <-ctx.Done():
		return auth.Outcome{Err: ctx.Err()}
	}
}

func (a *blockingAcquirer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type stubHandle struct {
	did string
}

func (h *stubHandle) DID() string { return h.did }

func (h *stubHandle) GetProfile(ctx context.Context, actor string) (domain.ProfileSummary, error) {
	return domain.ProfileSummary{DID: actor}, nil
}

func (h *stubHandle) GetFollows(ctx context.Context, actor string) (domain.FollowsList, error) {
	return nil, nil
}

func (h *stubHandle) GetAuthorFeed(ctx context.Context, actor string, limit int64, filter string) ([]domain.PostSummary, error) {
	return nil, nil
}

func stubFactory(sess auth.Session) domain.ClientHandle {
	return &stubHandle{did: sess.Sub}
}
