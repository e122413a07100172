// Package agent owns the per-page session lifecycle: the provider that turns
// an authorization outcome into a client handle, the fetch-once resources
// built on top of it, and the registry of live pages.
package agent

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/domain"
)

// State is the lifecycle position of a Provider.
type State string

const (
	StateUninitialized State = "uninitialized"
	StatePending       State = "pending"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Snapshot is the observable state of a Provider. Version increases with
// every transition so observers can drop stale deliveries.
type Snapshot struct {
	State       State  `json:"state"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Version     uint64 `json:"version"`
}

// Acquirer resolves an authorization outcome for a browser.
type Acquirer interface {
	Acquire(ctx context.Context, browserID string, params url.Values) auth.Outcome
}

// HandleFactory builds the client handle for an authenticated session.
type HandleFactory func(auth.Session) domain.ClientHandle

// Notifier is called after every state transition.
type Notifier func(ctx context.Context, snap Snapshot)

// Provider exposes the client handle of one page once it exists.
type Provider struct {
	acquirer Acquirer
	factory  HandleFactory
	timeout  time.Duration
	notify   Notifier
	logger   *slog.Logger

	mu       sync.RWMutex
	state    State
	handle   domain.ClientHandle
	redirect string
	version  uint64

	done   chan struct{}
	cancel context.CancelFunc
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTimeout bounds the session acquisition.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.timeout = d
	}
}

// WithNotifier registers the transition callback.
func WithNotifier(n Notifier) ProviderOption {
	return func(p *Provider) {
		p.notify = n
	}
}

// WithProviderLogger overrides the provider's logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates an uninitialized Provider.
func NewProvider(acquirer Acquirer, factory HandleFactory, opts ...ProviderOption) *Provider {
	p := &Provider{
		acquirer: acquirer,
		factory:  factory,
		timeout:  30 * time.Second,
		notify:   func(context.Context, Snapshot) {},
		logger:   slog.Default().With("component", "provider"),
		state:    StateUninitialized,
		done:     make(chan struct{}),
		cancel:   func() {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount starts the session acquisition. Only the first call has an effect;
// the acquisition outlives the request that triggered it.
func (p *Provider) Mount(ctx context.Context, browserID string, params url.Values) {
	p.mu.Lock()
	if p.state != StateUninitialized {
		p.mu.Unlock()
		return
	}
	acquireCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	p.cancel = cancel
	snap := p.transitionLocked(StatePending, nil, "")
	p.mu.Unlock()

	p.notify(acquireCtx, snap)

	go func() {
		defer cancel()
		p.resolve(acquireCtx, p.acquirer.Acquire(acquireCtx, browserID, params))
	}()
}

func (p *Provider) resolve(ctx context.Context, outcome auth.Outcome) {
	p.mu.Lock()
	var snap Snapshot
	switch {
	case outcome.Session != nil:
		snap = p.transitionLocked(StateReady, p.factory(*outcome.Session), "")
	case outcome.RedirectURL != "":
		snap = p.transitionLocked(StatePending, nil, outcome.RedirectURL)
	default:
		snap = p.transitionLocked(StateFailed, nil, "")
	}
	p.mu.Unlock()

	p.logger.Debug("Provider resolved", "state", snap.State)
	p.notify(ctx, snap)
	close(p.done)
}

func (p *Provider) transitionLocked(state State, handle domain.ClientHandle, redirect string) Snapshot {
	p.state = state
	p.handle = handle
	p.redirect = redirect
	p.version++
	return p.snapshotLocked()
}

func (p *Provider) snapshotLocked() Snapshot {
	return Snapshot{State: p.state, RedirectURL: p.redirect, Version: p.version}
}

// Handle returns the client handle once the provider is ready.
func (p *Provider) Handle() (domain.ClientHandle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.handle, p.state == StateReady
}

// Snapshot returns the current observable state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// Done is closed once the acquisition has resolved and observers have been
// notified, including when it resolved to a redirect.
func (p *Provider) Done() <-chan struct{} {
	return p.done
}

// Close cancels an acquisition still in flight.
func (p *Provider) Close() {
	p.mu.RLock()
	cancel := p.cancel
	p.mu.RUnlock()
	cancel()
}
