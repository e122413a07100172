// Package layouts holds the document shell shared by every full page.
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/gridsky/internal/view"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/components"
	"maragu.dev/gomponents/html"
)

const (
	htmxSrc     = "https://unpkg.com/htmx.org@2.0.4"
	tailwindSrc = "https://cdn.tailwindcss.com"
	scriptSrc   = "/static/gridsky.js"
)

// BaseProps configures the document shell.
type BaseProps struct {
	Title string
	// PageID connects the page script to the page's event socket. Pages
	// without a provider leave it empty.
	PageID string
	Flash  view.FlashData
}

// Base wraps content in the HTML document.
func Base(props BaseProps, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := components.HTML5(components.HTML5Props{
			Title:    CalculateTitle(props.Title),
			Language: "en",
			Head: []gomponents.Node{
				html.Script(html.Src(htmxSrc)),
				html.Script(html.Src(tailwindSrc)),
				html.Script(html.Src(scriptSrc), html.Defer()),
			},
			Body: []gomponents.Node{
				gomponents.If(props.PageID != "", html.Data("page", props.PageID)),
				html.Div(html.Class("space-y-2 p-2"),
					flash(props.Flash),
					view.AdaptTemplToGomponentContext(ctx, content),
				),
			},
		})
		return doc.Render(w)
	})
}

func flash(data view.FlashData) gomponents.Node {
	if data.Empty() {
		return nil
	}
	return html.Div(html.ID("flash"),
		gomponents.Map(data.Success, func(msg string) gomponents.Node {
			return html.Div(html.Class("border-2 border-green-700 p-2 text-green-800"), gomponents.Text(msg))
		}),
		gomponents.Map(data.Error, func(msg string) gomponents.Node {
			return html.Div(html.Class("border-2 border-red-700 p-2 text-red-800"), html.Role("alert"), gomponents.Text(msg))
		}),
	)
}
