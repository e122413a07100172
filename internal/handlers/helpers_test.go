package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/handlers"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/internal/pubsub"
	"github.com/nfrund/gridsky/internal/rendering"
)

const (
	testSessionSecret = "a-very-secret-key-for-testing-!"
	testBrowser       = "browser-1"
	browserHeader     = "X-Test-Browser"
)

// countingHandle is a ClientHandle that records every upstream call.
type countingHandle struct {
	mu    sync.Mutex
	calls map[string]int
	last  map[string][]any

	did        string
	profile    domain.ProfileSummary
	profileErr error
	follows    domain.FollowsList
	followsErr error
	posts      map[string][]domain.PostSummary
	postsErr   error
}

func newCountingHandle() *countingHandle {
	return &countingHandle{
		calls:   map[string]int{},
		last:    map[string][]any{},
		did:     "did:plc:me",
		profile: domain.ProfileSummary{DID: "did:plc:me", Handle: "me.bsky.social", DisplayName: "Me"},
		posts:   map[string][]domain.PostSummary{},
	}
}

func (h *countingHandle) record(op string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls[op]++
	h.last[op] = args
}

func (h *countingHandle) count(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[op]
}

func (h *countingHandle) lastArgs(op string) []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last[op]
}

func (h *countingHandle) DID() string { return h.did }

func (h *countingHandle) GetProfile(ctx context.Context, actor string) (domain.ProfileSummary, error) {
	h.record("profile", actor)
	return h.profile, h.profileErr
}

func (h *countingHandle) GetFollows(ctx context.Context, actor string) (domain.FollowsList, error) {
	h.record("follows", actor)
	return h.follows, h.followsErr
}

func (h *countingHandle) GetAuthorFeed(ctx context.Context, actor string, limit int64, filter string) ([]domain.PostSummary, error) {
	h.record("feed", actor, limit, filter)
	return h.posts[actor], h.postsErr
}

func makeFollows(n int) domain.FollowsList {
	list := make(domain.FollowsList, n)
	for i := range list {
		list[i] = domain.ProfileSummary{
			DID:    fmt.Sprintf("did:plc:user%d", i),
			Handle: fmt.Sprintf("user%d.bsky.social", i),
		}
	}
	return list
}

// scriptedAcquirer resolves every acquisition with the queued outcome.
type scriptedAcquirer struct {
	outcomes chan auth.Outcome

	mu     sync.Mutex
	params []url.Values
}

func newScriptedAcquirer() *scriptedAcquirer {
	return &scriptedAcquirer{outcomes: make(chan auth.Outcome, 4)}
}

func (a *scriptedAcquirer) Acquire(ctx context.Context, browserID string, params url.Values) auth.Outcome {
	a.mu.Lock()
	a.params = append(a.params, params)
	a.mu.Unlock()

	select {
	case o := <-a.outcomes:
		return o
	case <-ctx.Done():
		return auth.Outcome{Err: ctx.Err()}
	}
}

// fixture is an echo instance serving the page routes against a real
// registry whose pages share one counting handle.
type fixture struct {
	e        *echo.Echo
	registry *agent.Registry
	acquirer *scriptedAcquirer
	handle   *countingHandle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bus := pubsub.NewWatermillBridge()
	handle := newCountingHandle()
	acq := newScriptedAcquirer()
	registry := agent.NewRegistry(acq, func(auth.Session) domain.ClientHandle { return handle }, bus, time.Minute)
	t.Cleanup(func() {
		_ = registry.Shutdown(context.Background())
		_ = bus.Close()
	})

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(browserHeader)
			if id == "" {
				id = testBrowser
			}
			c.Set(middleware.BrowserContextKey, id)
			return next(c)
		}
	})

	home := handlers.NewHomeHandler(registry)
	fragments := handlers.NewFragmentHandler(registry, 1200)
	e.GET("/", home.HomeGet)
	e.GET("/pages/:page/header", fragments.Header)
	e.GET("/pages/:page/grid", fragments.Grid)
	e.GET("/pages/:page/rows/:row", fragments.Row)
	e.GET("/pages/:page/posts", fragments.Post)

	return &fixture{e: e, registry: registry, acquirer: acq, handle: handle}
}

// page mounts a page resolved with outcome.
func (f *fixture) page(t *testing.T, outcome *auth.Outcome) *agent.Page {
	t.Helper()
	if outcome != nil {
		f.acquirer.outcomes <- *outcome
	}
	page := f.registry.Create(context.Background(), testBrowser, nil)
	if outcome != nil {
		select {
		case <-page.Provider.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("provider did not resolve")
		}
	}
	return page
}

func (f *fixture) readyPage(t *testing.T) *agent.Page {
	return f.page(t, &auth.Outcome{Session: &auth.Session{Sub: "did:plc:me", ID: "s1"}})
}

func (f *fixture) get(t *testing.T, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	require.NotNil(t, rec)
	return rec
}
