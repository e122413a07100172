package layouts

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/gridsky/internal/view"
	"github.com/nfrund/gridsky/web/src/templates/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "gridsky", CalculateTitle(""))
	assert.Equal(t, "Signed out - gridsky", CalculateTitle("Signed out"))
}

func TestBase(t *testing.T) {
	t.Run("page shell", func(t *testing.T) {
		var buf bytes.Buffer
		err := Base(BaseProps{PageID: "p1"}, view.AdaptGomponentToTempl(pages.Home("p1"))).Render(context.Background(), &buf)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "<!doctype html>")
		assert.Contains(t, out, "<title>gridsky</title>")
		assert.Contains(t, out, `data-page="p1"`)
		assert.Contains(t, out, `src="/static/gridsky.js"`)
		assert.Contains(t, out, `hx-get="/pages/p1/header"`)
		assert.Contains(t, out, `hx-get="/pages/p1/grid"`)
		assert.NotContains(t, out, `id="flash"`)
	})

	t.Run("flash messages", func(t *testing.T) {
		var buf bytes.Buffer
		props := BaseProps{
			Title: "Signed out",
			Flash: view.FlashData{Success: []string{"You have been signed out."}},
		}
		require.NoError(t, Base(props, view.AdaptGomponentToTempl(pages.SignedOut())).Render(context.Background(), &buf))

		out := buf.String()
		assert.Contains(t, out, "You have been signed out.")
		assert.NotContains(t, out, "data-page")
		assert.Contains(t, out, `href="/"`)
	})
}
