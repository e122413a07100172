package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/pubsub"
	"github.com/nfrund/gridsky/internal/server"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:              config.EnvDevelopment,
		Addr:             "127.0.0.1:0",
		BaseURL:          "http://127.0.0.1:5173",
		SessionSecret:    "a-very-secret-key-for-testing-!",
		OAuthScope:       "atproto transition:generic",
		OAuthProviderURL: "https://bsky.social",
		DataDir:          t.TempDir(),
		FollowsLimit:     50,
		AuthTimeout:      time.Second,
		PageTTL:          time.Minute,
		InitialViewport:  1200,
	}
}

func TestNew_ResolvesServices(t *testing.T) {
	i := New(testConfig(t), BuildInfo{Version: "test"})

	s, err := do.Invoke[*server.Server](i)
	require.NoError(t, err)
	require.NotNil(t, s.E)

	pages := do.MustInvoke[*agent.Registry](i)
	assert.Same(t, pages, do.MustInvoke[*agent.Registry](i), "services are singletons")

	authorizer := do.MustInvoke[*auth.OAuthAuthorizer](i)
	meta := authorizer.ClientMetadata()
	assert.Contains(t, meta.ClientID, "http://localhost")

	tracing := do.MustInvoke[*Tracing](i)
	require.NotNil(t, tracing.Tracer)
	assert.NoError(t, tracing.Shutdown(context.Background()))

	bus := do.MustInvoke[*pubsub.WatermillBridge](i)
	t.Cleanup(func() {
		_ = pages.Shutdown(context.Background())
		_ = bus.Close()
	})
}

func TestNew_StoreErrorSurfaces(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.DataDir = filepath.Join(blocker, "data")

	i := New(cfg, BuildInfo{})
	_, err := do.Invoke[*auth.Bootstrapper](i)
	assert.Error(t, err)
}
