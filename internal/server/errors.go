package server

import (
	"errors"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/middleware"
)

// setupErrorHandling logs errors that no handler turned into an
// echo.HTTPError, with the stack they surfaced on, before the default
// handler answers 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
