package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageCounter reports the number of live page instances.
type PageCounter interface {
	Len() int
}

// HealthHandler reports liveness.
type HealthHandler struct {
	pages PageCounter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pages PageCounter) *HealthHandler {
	return &HealthHandler{pages: pages}
}

// HealthGet always reports ok while the process serves requests.
func (h *HealthHandler) HealthGet(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Pages: h.pages.Len()})
}
