package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/nfrund/gridsky/internal/domain"
)

// ErrResourceFailed is returned by Load after the single fetch for a handle
// has failed. The caller keeps showing its loading state.
var ErrResourceFailed = errors.New("resource fetch failed")

// FetchFunc performs the upstream request for a Resource.
type FetchFunc[T any] func(ctx context.Context, handle domain.ClientHandle) (T, error)

// Resource holds a value fetched at most once per handle identity.
// Concurrent loads share the one fetch.
type Resource[T any] struct {
	mu       sync.Mutex
	owner    string
	value    T
	loaded   bool
	failed   bool
	inflight chan struct{}
}

// Load returns the value for handle, fetching it on first use.
//
// The first caller whose fetch fails receives the fetch error; later callers
// receive ErrResourceFailed without another request. A fetch aborted by the
// caller's context is not recorded, so the next Load tries again.
func (r *Resource[T]) Load(ctx context.Context, handle domain.ClientHandle, fetch FetchFunc[T]) (T, error) {
	for {
		r.mu.Lock()
		if r.owner != handle.DID() {
			r.reset(handle.DID())
		}
		switch {
		case r.loaded:
			v := r.value
			r.mu.Unlock()
			return v, nil
		case r.failed:
			r.mu.Unlock()
			var zero T
			return zero, ErrResourceFailed
		case r.inflight != nil:
			wait := r.inflight
			r.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
		}

		done := make(chan struct{})
		r.inflight = done
		owner := r.owner
		r.mu.Unlock()

		v, err := fetch(ctx, handle)

		r.mu.Lock()
		if r.owner == owner {
			r.inflight = nil
			switch {
			case err == nil:
				r.value, r.loaded = v, true
			case ctx.Err() == nil:
				r.failed = true
			}
		}
		r.mu.Unlock()
		close(done)
		return v, err
	}
}

// Value returns the stored value without fetching.
func (r *Resource[T]) Value() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.loaded
}

func (r *Resource[T]) reset(owner string) {
	var zero T
	r.owner = owner
	r.value = zero
	r.loaded = false
	r.failed = false
	r.inflight = nil
}
