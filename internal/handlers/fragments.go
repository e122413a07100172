package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/grid"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/web/src/templates/components"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// HeaderRedirect tells htmx to navigate the whole page.
const HeaderRedirect = "HX-Redirect"

const followingKey = "Following %d accounts"

// PageLookup finds a live page instance.
type PageLookup interface {
	Get(pageID, browserID string) (*agent.Page, error)
}

// FragmentHandler serves the htmx fragments of a page instance. None of
// them issues an upstream request before the page's client handle exists.
type FragmentHandler struct {
	pages    PageLookup
	viewport int
	printer  *message.Printer
}

// NewFragmentHandler creates a FragmentHandler. viewport is the height in
// pixels assumed for the first window of rows.
func NewFragmentHandler(pages PageLookup, viewport int) *FragmentHandler {
	cat := catalog.NewBuilder()
	_ = cat.Set(language.English, followingKey, plural.Selectf(1, "%d",
		"one", "Following %d account",
		"other", "Following %d accounts",
	))

	return &FragmentHandler{
		pages:    pages,
		viewport: viewport,
		printer:  message.NewPrinter(language.English, message.Catalog(cat)),
	}
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *FragmentHandler) page(c echo.Context, pageID string) (*agent.Page, error) {
	page, err := h.pages.Get(pageID, middleware.BrowserID(c))
	if errors.Is(err, domain.ErrPageNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return page, err
}

// handle returns the page's client handle. Without one, a pending redirect
// is handed to htmx and the caller renders its waiting state.
func (h *FragmentHandler) handle(c echo.Context, page *agent.Page) (domain.ClientHandle, agent.Snapshot, bool) {
	snap := page.Provider.Snapshot()
	handle, ok := page.Provider.Handle()
	if !ok && snap.RedirectURL != "" {
		c.Response().Header().Set(HeaderRedirect, snap.RedirectURL)
	}
	return handle, snap, ok
}

// logFetchFailure reports the first failure of a fetch. Repeats of a
// recorded failure and abandoned requests are not errors.
func logFetchFailure(ctx context.Context, msg string, err error, args ...any) {
	logger := middleware.FromContext(ctx)
	args = append(args, "error", err)
	switch {
	case errors.Is(err, agent.ErrResourceFailed):
		logger.Debug(msg, args...)
	case errors.Is(err, context.Canceled):
		logger.Debug("Request abandoned", args...)
	default:
		logger.Error(msg, args...)
	}
}

// Header renders the signed-in user's header.
func (h *FragmentHandler) Header(c echo.Context) error {
	var req PageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.page(c, req.PageID)
	if err != nil {
		return err
	}

	handle, snap, ok := h.handle(c, page)
	if !ok {
		if snap.State == agent.StateFailed {
			return c.Render(http.StatusOK, "", components.HeaderLoading())
		}
		return c.Render(http.StatusOK, "", components.HeaderWaiting(page.ID, false))
	}

	ctx := c.Request().Context()
	profile, err := page.Header.Load(ctx, handle, func(ctx context.Context, handle domain.ClientHandle) (domain.ProfileSummary, error) {
		return handle.GetProfile(ctx, handle.DID())
	})
	if err != nil {
		logFetchFailure(ctx, "Failed to fetch own profile", err, "did", handle.DID())
		return c.Render(http.StatusOK, "", components.HeaderLoading())
	}
	return c.Render(http.StatusOK, "", components.HeaderProfile(profile))
}

// Grid renders the follows grid with the first window of rows mounted.
func (h *FragmentHandler) Grid(c echo.Context) error {
	var req PageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.page(c, req.PageID)
	if err != nil {
		return err
	}

	handle, snap, ok := h.handle(c, page)
	if !ok {
		if snap.State == agent.StateFailed {
			return c.Render(http.StatusOK, "", components.GridLoading())
		}
		return c.Render(http.StatusOK, "", components.GridWaiting(page.ID, false))
	}

	ctx := c.Request().Context()
	follows, err := page.Follows.Load(ctx, handle, func(ctx context.Context, handle domain.ClientHandle) (domain.FollowsList, error) {
		return handle.GetFollows(ctx, handle.DID())
	})
	if err != nil {
		logFetchFailure(ctx, "Failed to fetch follows", err, "did", handle.DID())
		return c.Render(http.StatusOK, "", components.GridLoading())
	}
	middleware.FromContext(ctx).Debug("Got follows", "count", len(follows))

	layout := grid.NewLayout(follows)
	v := layout.Virtualizer()

	mounted := make(map[int]bool)
	for _, item := range v.VirtualItems(0, h.viewport) {
		mounted[item.Index] = true
	}
	rows := make([]grid.VirtualItem, layout.Rows())
	for i := range rows {
		rows[i] = v.Item(i)
	}

	return c.Render(http.StatusOK, "", components.Grid(components.GridProps{
		PageID:    page.ID,
		Heading:   h.printer.Sprintf(followingKey, len(follows)),
		Layout:    layout,
		TotalSize: v.TotalSize(),
		Rows:      rows,
		Mounted:   mounted,
	}))
}

// Row mounts one row of the grid when it scrolls into view.
func (h *FragmentHandler) Row(c echo.Context) error {
	var req RowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.page(c, req.PageID)
	if err != nil {
		return err
	}

	if _, _, ok := h.handle(c, page); !ok {
		return echo.NewHTTPError(http.StatusConflict, "client not ready")
	}
	follows, ok := page.Follows.Value()
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, "follows not loaded")
	}

	layout := grid.NewLayout(follows)
	if req.Row >= layout.Rows() {
		return echo.NewHTTPError(http.StatusNotFound, "row out of range")
	}
	item := layout.Virtualizer().Item(req.Row)
	return c.Render(http.StatusOK, "", components.Row(page.ID, item, layout.Row(req.Row)))
}

// Post renders the latest original post of an account. Every call is one
// upstream request; failures and empty feeds keep the loading text.
func (h *FragmentHandler) Post(c echo.Context) error {
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.page(c, req.PageID)
	if err != nil {
		return err
	}

	handle, _, ok := h.handle(c, page)
	if !ok {
		return c.Render(http.StatusOK, "", components.PostLoading())
	}

	ctx := c.Request().Context()
	posts, err := handle.GetAuthorFeed(ctx, req.Actor, 1, domain.FeedFilterPostsNoReplies)
	if err != nil {
		logFetchFailure(ctx, "Failed to fetch latest post", err, "actor", req.Actor)
		return c.Render(http.StatusOK, "", components.PostLoading())
	}
	if len(posts) == 0 {
		return c.Render(http.StatusOK, "", components.PostLoading())
	}
	return c.Render(http.StatusOK, "", components.Post(posts[0]))
}
