package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// BrowserContextKey holds the browser ID for downstream handlers.
	BrowserContextKey = "browser_id"

	browserSessionName = "gridsky-browser"
	browserIDField     = "id"
)

// Browser ensures every request carries a stable browser ID in the signed
// cookie session. The ID keys the persisted account binding, the server-side
// equivalent of the browser's local storage. It must run after the session
// middleware.
func Browser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(browserSessionName, c)
		if err != nil {
			// A cookie signed with a rotated secret decodes with an error but
			// still yields a fresh session we can use.
			slog.Debug("Discarding unreadable browser session", "error", err)
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
		}

		id, _ := sess.Values[browserIDField].(string)
		if _, parseErr := uuid.Parse(id); parseErr != nil {
			id = uuid.NewString()
			sess.Values[browserIDField] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				slog.Error("Failed to save browser session", "error", err)
				return err
			}
		}

		c.Set(BrowserContextKey, id)
		return next(c)
	}
}

// BrowserID returns the browser ID set by the Browser middleware.
func BrowserID(c echo.Context) string {
	id, _ := c.Get(BrowserContextKey).(string)
	return id
}
