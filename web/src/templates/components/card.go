package components

import (
	"github.com/nfrund/gridsky/internal/domain"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// LoadingText is shown wherever content has not arrived.
const LoadingText = "Loading..."

func externalLink(href string, children ...gomponents.Node) gomponents.Node {
	return html.A(html.Href(href), html.Target("_blank"), html.Rel("noopener"), gomponents.Group(children))
}

// Card renders one followed account. The identity block is static; the
// post area requests the account's latest post when it is mounted.
func Card(pageID string, profile domain.ProfileSummary) gomponents.Node {
	url := profile.URL()
	name := profile.Name()

	return html.Div(html.Class("h-full space-y-4 overflow-scroll border-2 border-black p-2"),
		html.Div(html.Class("flex items-start space-x-2"),
			gomponents.If(profile.Avatar != "",
				externalLink(url, html.Class("shrink-0"),
					html.Img(html.Src(profile.Avatar), html.Height("50"), html.Width("50"), html.Alt("")),
				),
			),
			html.Div(html.Class("min-w-0"),
				html.Div(html.Class("truncate text-xl font-bold"),
					externalLink(url, html.Title(name), gomponents.Text(name)),
				),
				html.Div(html.Class("truncate"), html.Title(profile.Description), gomponents.Text(profile.Description)),
			),
		),
		html.Div(
			hx.Get(PostPath(pageID, profile.Handle)),
			hx.Trigger("load"),
			hx.Swap("innerHTML"),
			gomponents.Text(LoadingText),
		),
	)
}

// Post renders the latest post of a card: its text, when present, followed
// by one thumbnail per attached image.
func Post(post domain.PostSummary) gomponents.Node {
	nodes := make(gomponents.Group, 0, len(post.Images)+1)
	if post.HasText {
		nodes = append(nodes, gomponents.Text(post.Text))
	}
	for _, img := range post.Images {
		nodes = append(nodes, html.Img(html.Src(img.Thumb), html.Alt(img.Alt)))
	}
	return nodes
}

// PostLoading is the post area of a card whose post never arrived.
func PostLoading() gomponents.Node {
	return gomponents.Text(LoadingText)
}
