package agent

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/metrics"
	"github.com/nfrund/gridsky/internal/pubsub"
)

// StateEvent carries the provider snapshots of every page. Messages name
// their page in Message.PageID; subscribers filter on it. The topic is
// shared so the bus holds no state per page.
var StateEvent = pubsub.NewEvent[Snapshot]("gridsky.page.state")

// Page is one mounted instance of the application for a browser. Its views
// share the provider and the fetch-once resources.
type Page struct {
	ID        string
	BrowserID string
	Provider  *Provider

	Header  Resource[domain.ProfileSummary]
	Follows Resource[domain.FollowsList]

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch records activity on the page.
func (p *Page) Touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

func (p *Page) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Registry tracks live pages and evicts those idle longer than the TTL.
type Registry struct {
	acquirer Acquirer
	factory  HandleFactory
	bus      pubsub.Publisher
	ttl      time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu    sync.RWMutex
	pages map[string]*Page

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithAcquireTimeout bounds the session acquisition of each page.
func WithAcquireTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.timeout = d
	}
}

// NewRegistry creates a Registry. Provider transitions of every page are
// published on bus.
func NewRegistry(acquirer Acquirer, factory HandleFactory, bus pubsub.Publisher, ttl time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		acquirer: acquirer,
		factory:  factory,
		bus:      bus,
		ttl:      ttl,
		timeout:  30 * time.Second,
		now:      time.Now,
		logger:   slog.Default().With("component", "pages"),
		pages:    make(map[string]*Page),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new page for the browser and mounts its provider.
func (r *Registry) Create(ctx context.Context, browserID string, params url.Values) *Page {
	page := &Page{
		ID:        uuid.NewString(),
		BrowserID: browserID,
		lastSeen:  r.now(),
	}
	page.Provider = NewProvider(r.acquirer, r.factory,
		WithTimeout(r.timeout),
		WithNotifier(r.publisher(page.ID)),
	)

	r.mu.Lock()
	r.pages[page.ID] = page
	count := len(r.pages)
	r.mu.Unlock()
	metrics.PagesActive.Set(float64(count))

	page.Provider.Mount(ctx, browserID, params)
	return page
}

func (r *Registry) publisher(pageID string) Notifier {
	return func(ctx context.Context, snap Snapshot) {
		if err := pubsub.Publish(ctx, r.bus, StateEvent, pageID, snap); err != nil {
			r.logger.Error("Failed to publish page state", "page_id", pageID, "state", snap.State, "error", err)
		}
	}
}

// Get returns the page and marks it active. The browser ID must match the
// one the page was created for.
func (r *Registry) Get(pageID, browserID string) (*Page, error) {
	r.mu.RLock()
	page, ok := r.pages[pageID]
	r.mu.RUnlock()
	if !ok || page.BrowserID != browserID {
		return nil, domain.ErrPageNotFound
	}
	page.Touch(r.now())
	return page, nil
}

// Len returns the number of live pages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// Evict removes pages idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Page
	for id, page := range r.pages {
		if page.idleSince().Before(cutoff) {
			expired = append(expired, page)
			delete(r.pages, id)
		}
	}
	count := len(r.pages)
	r.mu.Unlock()

	for _, page := range expired {
		page.Provider.Close()
	}
	metrics.PagesActive.Set(float64(count))
	if len(expired) > 0 {
		r.logger.Debug("Evicted idle pages", "count", len(expired), "remaining", count)
	}
	return len(expired)
}

// StartJanitor evicts idle pages on every tick until Shutdown.
func (r *Registry) StartJanitor(interval time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Evict()
			case <-r.stop:
				return
			}
		}
	}()
}

// Shutdown stops the janitor and cancels every pending acquisition.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stop) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*Page)
	r.mu.Unlock()

	for _, page := range pages {
		page.Provider.Close()
	}
	metrics.PagesActive.Set(0)
	return nil
}
