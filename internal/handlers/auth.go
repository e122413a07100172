package handlers

import (
	"context"
	"net/http"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/internal/view"
	"github.com/nfrund/gridsky/web/src/templates/layouts"
	"github.com/nfrund/gridsky/web/src/templates/pages"
)

// ClientMetadataSource exposes the OAuth client-metadata document.
type ClientMetadataSource interface {
	ClientMetadata() oauth.ClientMetadata
}

// SignOuter revokes the session bound to a browser.
type SignOuter interface {
	SignOut(ctx context.Context, browserID string) error
}

// AuthHandler serves the OAuth client surface.
type AuthHandler struct {
	metadata ClientMetadataSource
	signOut  SignOuter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(metadata ClientMetadataSource, signOut SignOuter) *AuthHandler {
	return &AuthHandler{metadata: metadata, signOut: signOut}
}

// ClientMetadata serves the document the authorization server fetches to
// identify this client.
func (h *AuthHandler) ClientMetadata(c echo.Context) error {
	return c.JSON(http.StatusOK, h.metadata.ClientMetadata())
}

// Logout revokes the browser's session and forgets which account it used.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.signOut.SignOut(ctx, middleware.BrowserID(c)); err != nil {
		middleware.FromContext(ctx).Error("Failed to sign out", "error", err)
		view.SetFlashError(c, "Signing out failed. Please try again.")
		return c.Redirect(http.StatusSeeOther, "/signed-out")
	}

	view.SetFlashSuccess(c, "You have been signed out.")
	return c.Redirect(http.StatusSeeOther, "/signed-out")
}

// SignedOutGet renders the page shown after signing out.
func (h *AuthHandler) SignedOutGet(c echo.Context) error {
	props := layouts.BaseProps{
		Title: "Signed out",
		Flash: view.GetFlashData(c),
	}
	return c.Render(http.StatusOK, "", layouts.Base(props, view.AdaptGomponentToTempl(pages.SignedOut())))
}
