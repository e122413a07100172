package agent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nfrund/gridsky/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_FetchesOnce(t *testing.T) {
	var r Resource[string]
	var calls atomic.Int32
	fetch := func(ctx context.Context, h domain.ClientHandle) (string, error) {
		calls.Add(1)
		return "profile of " + h.DID(), nil
	}
	handle := &stubHandle{did: "did:plc:me"}

	for i := 0; i < 3; i++ {
		v, err := r.Load(context.Background(), handle, fetch)
		require.NoError(t, err)
		assert.Equal(t, "profile of did:plc:me", v)
	}
	assert.Equal(t, int32(1), calls.Load())

	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, "profile of did:plc:me", v)
}

func TestResource_ConcurrentLoadsShareOneFetch(t *testing.T) {
	var r Resource[int]
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, h domain.ClientHandle) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}
	handle := &stubHandle{did: "did:plc:me"}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := r.Load(context.Background(), handle, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestResource_FailureIsTerminal(t *testing.T) {
	var r Resource[string]
	var calls atomic.Int32
	upstream := errors.New("XRPC ERROR 500")
	fetch := func(ctx context.Context, h domain.ClientHandle) (string, error) {
		calls.Add(1)
		return "", upstream
	}
	handle := &stubHandle{did: "did:plc:me"}

	_, err := r.Load(context.Background(), handle, fetch)
	assert.ErrorIs(t, err, upstream)

	_, err = r.Load(context.Background(), handle, fetch)
	assert.ErrorIs(t, err, ErrResourceFailed)
	assert.Equal(t, int32(1), calls.Load(), "no retry after a failure")

	_, ok := r.Value()
	assert.False(t, ok)
}

func TestResource_CancelledFetchIsNotAnAttempt(t *testing.T) {
	var r Resource[string]
	var calls atomic.Int32
	fetch := func(ctx context.Context, h domain.ClientHandle) (string, error) {
		if calls.Add(1) == 1 {
			return "", ctx.Err()
		}
		return "ok", nil
	}
	handle := &stubHandle{did: "did:plc:me"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Load(ctx, handle, fetch)
	assert.ErrorIs(t, err, context.Canceled)

	v, err := r.Load(context.Background(), handle, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestResource_NewHandleIdentityRefetches(t *testing.T) {
	var r Resource[string]
	fetch := func(ctx context.Context, h domain.ClientHandle) (string, error) {
		return h.DID(), nil
	}

	v, err := r.Load(context.Background(), &stubHandle{did: "did:plc:a"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "did:plc:a", v)

	v, err = r.Load(context.Background(), &stubHandle{did: "did:plc:b"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "did:plc:b", v)
}
