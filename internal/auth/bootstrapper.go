package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/metrics"
)

// Outcome is the resolution of one session acquisition. Exactly one of
// Session, RedirectURL or Err is set.
type Outcome struct {
	Session *Session

	// RedirectURL is set when the browser must leave for the identity
	// provider. The acquisition does not complete on this page load.
	RedirectURL string

	Err error
}

// Bootstrapper performs the authorization handshake or session restoration.
type Bootstrapper struct {
	authorizer   Authorizer
	providerHint string
	logger       *slog.Logger
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger overrides the bootstrapper's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// NewBootstrapper creates a Bootstrapper that signs in through providerHint
// when no prior state exists.
func NewBootstrapper(authorizer Authorizer, providerHint string, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		authorizer:   authorizer,
		providerHint: providerHint,
		logger:       slog.Default().With("component", "auth"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Acquire resolves a session for the browser. Every authorization failure is
// logged and converted into an Outcome without a session; nothing is retried.
func (b *Bootstrapper) Acquire(ctx context.Context, browserID string, params url.Values) Outcome {
	result, err := b.authorizer.Init(ctx, browserID, params)
	switch {
	case err == nil:
		if result.State != "" {
			b.logger.Info("Session authenticated", "sub", result.Session.Sub, "state", result.State)
			metrics.SessionOutcomes.WithLabelValues(metrics.SessionAuthenticated).Inc()
		} else {
			b.logger.Info("Session restored from last active session", "sub", result.Session.Sub)
			metrics.SessionOutcomes.WithLabelValues(metrics.SessionRestored).Inc()
		}
		sess := result.Session
		return Outcome{Session: &sess}

	case errors.Is(err, domain.ErrNoPriorSession):
		// Fall through to the interactive flow below.

	default:
		return b.fail(err)
	}

	redirectURL, err := b.authorizer.SignIn(ctx, browserID, b.providerHint)
	if err != nil {
		return b.fail(err)
	}
	b.logger.Info("Redirecting to identity provider", "provider", b.providerHint)
	metrics.SessionOutcomes.WithLabelValues(metrics.SessionRedirect).Inc()
	return Outcome{RedirectURL: redirectURL}
}

func (b *Bootstrapper) fail(err error) Outcome {
	if errors.Is(err, domain.ErrAuthorizationAborted) {
		b.logger.Info("The user aborted the authorization process", "error", err)
		metrics.SessionOutcomes.WithLabelValues(metrics.SessionAborted).Inc()
	} else {
		b.logger.Error("Authorization failed", "error", err)
		metrics.SessionOutcomes.WithLabelValues(metrics.SessionFailed).Inc()
	}
	return Outcome{Err: err}
}
