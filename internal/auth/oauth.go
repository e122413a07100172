package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/storage"
)

// errAccessDenied is the OAuth error code sent when the user declines or
// backs out of the authorization page.
const errAccessDenied = "access_denied"

// pendingTTL bounds how long an outstanding sign-in counts as in progress.
// Older records belong to a flow the browser never came back from.
const pendingTTL = 30 * time.Minute

// BindingStore remembers which session a browser last used and whether it
// was sent to the identity provider without returning.
type BindingStore interface {
	GetBinding(ctx context.Context, browserID string) (*storage.BrowserBinding, error)
	SaveBinding(ctx context.Context, browserID, did, sessionID string) error
	DeleteBinding(ctx context.Context, browserID string) error

	GetPending(ctx context.Context, browserID string) (*storage.PendingSignIn, error)
	SavePending(ctx context.Context, browserID, providerHint string) error
	DeletePending(ctx context.Context, browserID string) error
}

// NewClientConfig returns the public-client configuration for the
// environment. Development uses a loopback client whose ID embeds the
// redirect URI and scope; deployments reference the hosted metadata document.
// Both authenticate at the token endpoint with method "none".
func NewClientConfig(cfg *config.Config) oauth.ClientConfig {
	if cfg.IsDevelopment() {
		return oauth.NewLocalhostConfig(cfg.BaseURL, cfg.Scopes())
	}
	return oauth.NewPublicConfig(cfg.ClientMetadataURL(), cfg.BaseURL, cfg.Scopes())
}

// OAuthAuthorizer implements Authorizer with indigo's OAuth client app.
type OAuthAuthorizer struct {
	app      *oauth.ClientApp
	bindings BindingStore
	logger   *slog.Logger
	now      func() time.Time
}

var _ Authorizer = (*OAuthAuthorizer)(nil)

// NewOAuthAuthorizer creates an OAuthAuthorizer. The auth store persists
// sessions and pending requests; bindings map browsers to sessions.
func NewOAuthAuthorizer(clientConfig oauth.ClientConfig, store oauth.ClientAuthStore, bindings BindingStore) *OAuthAuthorizer {
	return &OAuthAuthorizer{
		app:      oauth.NewClientApp(&clientConfig, store),
		bindings: bindings,
		logger:   slog.Default().With("component", "oauth"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ClientMetadata returns the client-metadata document for this client.
func (a *OAuthAuthorizer) ClientMetadata() oauth.ClientMetadata {
	return a.app.Config.ClientMetadata()
}

// Init implements Authorizer.
func (a *OAuthAuthorizer) Init(ctx context.Context, browserID string, params url.Values) (*InitResult, error) {
	if IsCallback(params) {
		return a.completeCallback(ctx, browserID, params)
	}

	// A plain load while a sign-in is outstanding means the user navigated
	// back from the authorization page. Starting another flow would send
	// them straight back there.
	if err := a.takePending(ctx, browserID); err != nil {
		return nil, err
	}

	binding, err := a.bindings.GetBinding(ctx, browserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoPriorSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load browser binding: %w", err)
	}

	did, err := syntax.ParseDID(binding.DID)
	if err != nil {
		a.forget(ctx, browserID, err)
		return nil, domain.ErrNoPriorSession
	}

	sess, err := a.app.ResumeSession(ctx, did, binding.SessionID)
	if err != nil {
		a.forget(ctx, browserID, err)
		return nil, domain.ErrNoPriorSession
	}
	return &InitResult{Session: newSession(sess)}, nil
}

// takePending clears the browser's outstanding sign-in and returns an error
// wrapping domain.ErrAuthorizationAborted if it was still fresh.
func (a *OAuthAuthorizer) takePending(ctx context.Context, browserID string) error {
	pending, err := a.bindings.GetPending(ctx, browserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load pending sign-in: %w", err)
	}
	if err := a.bindings.DeletePending(ctx, browserID); err != nil {
		return fmt.Errorf("failed to clear pending sign-in: %w", err)
	}
	if a.now().Sub(pending.StartedAt) > pendingTTL {
		return nil
	}
	return fmt.Errorf("%w: returned without completing sign-in at %s", domain.ErrAuthorizationAborted, pending.ProviderHint)
}

func (a *OAuthAuthorizer) completeCallback(ctx context.Context, browserID string, params url.Values) (*InitResult, error) {
	if err := a.bindings.DeletePending(ctx, browserID); err != nil {
		a.logger.Warn("Failed to clear pending sign-in", "browser_id", browserID, "error", err)
	}

	if code := params.Get("error"); code != "" {
		if code == errAccessDenied {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthorizationAborted, params.Get("error_description"))
		}
		return nil, fmt.Errorf("authorization server returned %s: %s", code, params.Get("error_description"))
	}

	data, err := a.app.ProcessCallback(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to complete authorization: %w", err)
	}

	if err := a.bindings.SaveBinding(ctx, browserID, data.AccountDID.String(), data.SessionID); err != nil {
		return nil, fmt.Errorf("failed to bind session to browser: %w", err)
	}

	sess, err := a.app.ResumeSession(ctx, data.AccountDID, data.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return &InitResult{Session: newSession(sess), State: params.Get("state")}, nil
}

// forget drops a binding whose session can no longer be resumed.
func (a *OAuthAuthorizer) forget(ctx context.Context, browserID string, cause error) {
	a.logger.Warn("Dropping browser binding whose session cannot be resumed", "browser_id", browserID, "error", cause)
	if err := a.bindings.DeleteBinding(ctx, browserID); err != nil {
		a.logger.Error("Failed to delete browser binding", "browser_id", browserID, "error", err)
	}
}

// SignIn implements Authorizer.
func (a *OAuthAuthorizer) SignIn(ctx context.Context, browserID, providerHint string) (string, error) {
	redirectURL, err := a.app.StartAuthFlow(ctx, providerHint)
	if err != nil {
		return "", fmt.Errorf("failed to start authorization flow: %w", err)
	}
	if err := a.bindings.SavePending(ctx, browserID, providerHint); err != nil {
		return "", fmt.Errorf("failed to record pending sign-in: %w", err)
	}
	return redirectURL, nil
}

// SignOut implements Authorizer.
func (a *OAuthAuthorizer) SignOut(ctx context.Context, browserID string) error {
	binding, err := a.bindings.GetBinding(ctx, browserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load browser binding: %w", err)
	}

	if did, err := syntax.ParseDID(binding.DID); err == nil {
		if err := a.app.Store.DeleteSession(ctx, did, binding.SessionID); err != nil {
			// The local binding is dropped regardless; the tokens expire on their own.
			a.logger.Warn("Failed to delete session", "did", binding.DID, "error", err)
		}
	}
	return a.bindings.DeleteBinding(ctx, browserID)
}

func newSession(sess *oauth.ClientSession) Session {
	return Session{
		Sub: sess.Data.AccountDID.String(),
		ID:  sess.Data.SessionID,
		API: sess.APIClient(),
	}
}
