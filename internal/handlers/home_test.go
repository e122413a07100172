package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeGet(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/?state=abc&code=xyz&iss=https%3A%2F%2Fbsky.social")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "data-page=")
	assert.Contains(t, body, `hx-trigger="load, handle-ready from:body"`)
	assert.Contains(t, body, "loading follows...")
	assert.Equal(t, 1, f.registry.Len())

	require.Eventually(t, func() bool {
		f.acquirer.mu.Lock()
		defer f.acquirer.mu.Unlock()
		return len(f.acquirer.params) == 1
	}, time.Second, 5*time.Millisecond)
	f.acquirer.mu.Lock()
	params := f.acquirer.params[0]
	f.acquirer.mu.Unlock()
	assert.Equal(t, "abc", params.Get("state"))
	assert.Equal(t, "xyz", params.Get("code"))

	f.get(t, "/")
	assert.Equal(t, 2, f.registry.Len(), "every load mounts a new page")
}
