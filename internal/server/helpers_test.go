package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/handlers"
	"github.com/nfrund/gridsky/internal/pubsub"
	"github.com/nfrund/gridsky/internal/websocket"
)

const authorizeURL = "https://bsky.social/oauth/authorize?request_uri=urn%3Aexample"

// redirectAcquirer sends every browser to the identity provider.
type redirectAcquirer struct{}

func (redirectAcquirer) Acquire(ctx context.Context, browserID string, params url.Values) auth.Outcome {
	return auth.Outcome{RedirectURL: authorizeURL}
}

type testMetadata struct{}

func (testMetadata) ClientMetadata() oauth.ClientMetadata {
	return oauth.ClientMetadata{ClientID: "http://localhost?scope=atproto"}
}

type noopSignOut struct{}

func (noopSignOut) SignOut(ctx context.Context, browserID string) error { return nil }

type testServer struct {
	*Server
	cleaned chan struct{}
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Env:             config.EnvDevelopment,
		Addr:            "127.0.0.1:0",
		BaseURL:         "http://127.0.0.1:5173",
		SessionSecret:   "a-very-secret-key-for-testing-!",
		PageTTL:         time.Minute,
		InitialViewport: 1200,
		RateLimit:       100,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bus := pubsub.NewWatermillBridge()
	pages := agent.NewRegistry(redirectAcquirer{}, func(auth.Session) domain.ClientHandle { return nil }, bus, cfg.PageTTL)
	reg := prometheus.NewRegistry()
	cleaned := make(chan struct{})

	s := New(Deps{
		Config:     cfg,
		Pages:      pages,
		Events:     websocket.NewBridge(pages, bus),
		Home:       handlers.NewHomeHandler(pages),
		Fragments:  handlers.NewFragmentHandler(pages, cfg.InitialViewport),
		Auth:       handlers.NewAuthHandler(testMetadata{}, noopSignOut{}),
		Health:     handlers.NewHealthHandler(pages),
		Registerer: reg,
		Gatherer:   reg,
		Cleanup: []func(context.Context) error{
			func(context.Context) error { return bus.Close() },
			func(context.Context) error { close(cleaned); return nil },
		},
	})
	s.RegisterRoutes()

	t.Cleanup(func() {
		_ = pages.Shutdown(context.Background())
		_ = bus.Close()
	})
	return &testServer{Server: s, cleaned: cleaned}
}

func (s *testServer) do(t *testing.T, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

var pageIDPattern = regexp.MustCompile(`data-page="([0-9a-f-]{36})"`)

func pageID(t *testing.T, body string) string {
	t.Helper()
	m := pageIDPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "shell should carry the page id")
	return m[1]
}
