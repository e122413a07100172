package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func newBrowserEcho() *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, BrowserID(c))
	}, Browser)
	return e
}

func TestBrowser(t *testing.T) {
	e := newBrowserEcho()

	t.Run("assigns a new browser ID and sets the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Body.String())
		assert.NoError(t, err, "browser ID should be a UUID")
		assert.NotEmpty(t, rec.Result().Cookies(), "session cookie should be set")
	})

	t.Run("keeps the browser ID across requests", func(t *testing.T) {
		first := httptest.NewRecorder()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, first.Code)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range first.Result().Cookies() {
			req.AddCookie(cookie)
		}
		second := httptest.NewRecorder()
		e.ServeHTTP(second, req)

		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Empty(t, second.Result().Cookies(), "an existing ID should not rewrite the cookie")
	})

	t.Run("replaces a tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: browserSessionName, Value: "garbage"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Body.String())
		assert.NoError(t, err)
	})
}
