package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/internal/view"
	"github.com/nfrund/gridsky/web/src/templates/layouts"
	"github.com/nfrund/gridsky/web/src/templates/pages"
)

// PageCreator mounts a new page instance.
type PageCreator interface {
	Create(ctx context.Context, browserID string, params url.Values) *agent.Page
}

// HomeHandler serves the page shell.
type HomeHandler struct {
	pages PageCreator
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(pages PageCreator) *HomeHandler {
	return &HomeHandler{pages: pages}
}

// HomeGet mounts a page instance and renders its shell right away. The
// query carries the authorization response when the identity provider
// redirects back here.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	page := h.pages.Create(c.Request().Context(), middleware.BrowserID(c), c.QueryParams())

	content := view.AdaptGomponentToTempl(pages.Home(page.ID))
	props := layouts.BaseProps{
		PageID: page.ID,
		Flash:  view.GetFlashData(c),
	}
	return c.Render(http.StatusOK, "", layouts.Base(props, content))
}
