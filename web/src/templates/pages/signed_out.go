package pages

import (
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// SignedOut is shown after the session has been revoked.
func SignedOut() gomponents.Node {
	return html.Div(html.Class("border-2 border-black p-2 space-y-2"),
		html.Div(html.Class("font-bold"), gomponents.Text("gridsky")),
		html.P(gomponents.Text("You are signed out.")),
		html.A(html.Href("/"), html.Class("underline"), gomponents.Text("Sign in again")),
	)
}
