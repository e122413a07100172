// Package app wires gridsky's services together at startup.
package app

import (
	"context"

	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/auth"
	"github.com/nfrund/gridsky/internal/bsky"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/handlers"
	"github.com/nfrund/gridsky/internal/pubsub"
	"github.com/nfrund/gridsky/internal/server"
	"github.com/nfrund/gridsky/internal/storage"
	"github.com/nfrund/gridsky/internal/websocket"
	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
}

// Tracing is the tracer used on the event bus and its shutdown hook.
type Tracing struct {
	Tracer   trace.Tracer
	Shutdown func(context.Context) error
}

// New returns an injector holding every service. Services are constructed
// on first use.
func New(cfg *config.Config, info BuildInfo) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, info)

	do.Provide(i, provideStore)
	do.Provide(i, provideAuthorizer)
	do.Provide(i, provideBootstrapper)
	do.Provide(i, provideTracing)
	do.Provide(i, provideBus)
	do.Provide(i, providePages)
	do.Provide(i, provideEvents)
	do.Provide(i, provideServer)

	return i
}

func provideStore(i do.Injector) (*storage.FileStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	docs, err := storage.NewOSStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(docs), nil
}

func provideAuthorizer(i do.Injector) (*auth.OAuthAuthorizer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store, err := do.Invoke[*storage.FileStore](i)
	if err != nil {
		return nil, err
	}
	return auth.NewOAuthAuthorizer(auth.NewClientConfig(cfg), store, store), nil
}

func provideBootstrapper(i do.Injector) (*auth.Bootstrapper, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authorizer, err := do.Invoke[*auth.OAuthAuthorizer](i)
	if err != nil {
		return nil, err
	}
	return auth.NewBootstrapper(authorizer, cfg.OAuthProviderURL), nil
}

func provideTracing(i do.Injector) (*Tracing, error) {
	cfg := do.MustInvoke[*config.Config](i)
	info := do.MustInvoke[BuildInfo](i)
	tracer, shutdown, err := pubsub.SetupTracing(context.Background(), cfg, info.Version)
	if err != nil {
		return nil, err
	}
	return &Tracing{Tracer: tracer, Shutdown: shutdown}, nil
}

func provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	tracing, err := do.Invoke[*Tracing](i)
	if err != nil {
		return nil, err
	}
	return pubsub.NewWatermillBridge(pubsub.WithTracer(tracing.Tracer)), nil
}

func providePages(i do.Injector) (*agent.Registry, error) {
	cfg := do.MustInvoke[*config.Config](i)
	bootstrapper, err := do.Invoke[*auth.Bootstrapper](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}

	factory := func(sess auth.Session) domain.ClientHandle {
		return bsky.NewAgent(sess, cfg.FollowsLimit)
	}
	return agent.NewRegistry(bootstrapper, factory, bus, cfg.PageTTL,
		agent.WithAcquireTimeout(cfg.AuthTimeout),
	), nil
}

func provideEvents(i do.Injector) (*websocket.Bridge, error) {
	pages, err := do.Invoke[*agent.Registry](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return websocket.NewBridge(pages, bus), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authorizer, err := do.Invoke[*auth.OAuthAuthorizer](i)
	if err != nil {
		return nil, err
	}
	pages, err := do.Invoke[*agent.Registry](i)
	if err != nil {
		return nil, err
	}
	events, err := do.Invoke[*websocket.Bridge](i)
	if err != nil {
		return nil, err
	}
	bus := do.MustInvoke[*pubsub.WatermillBridge](i)
	tracing := do.MustInvoke[*Tracing](i)

	s := server.New(server.Deps{
		Config:    cfg,
		Pages:     pages,
		Events:    events,
		Home:      handlers.NewHomeHandler(pages),
		Fragments: handlers.NewFragmentHandler(pages, cfg.InitialViewport),
		Auth:      handlers.NewAuthHandler(authorizer, authorizer),
		Health:    handlers.NewHealthHandler(pages),
		Cleanup: []func(context.Context) error{
			func(context.Context) error { return bus.Close() },
			tracing.Shutdown,
		},
	})
	s.RegisterRoutes()
	return s, nil
}
