package components

import (
	"github.com/nfrund/gridsky/internal/domain"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

const headerClass = "flex items-center justify-between border-2 border-black p-2"

func headerShell(children ...gomponents.Node) gomponents.Node {
	return html.Div(html.ID("header"), html.Class(headerClass),
		html.Div(html.Class("font-bold"), gomponents.Text("gridsky")),
		gomponents.Group(children),
	)
}

// HeaderWaiting renders the header before the user's profile can be
// requested. It reloads itself once the client handle exists.
func HeaderWaiting(pageID string, onLoad bool) gomponents.Node {
	return headerShell(
		hx.Get(HeaderPath(pageID)),
		hx.Trigger(waitForHandle(onLoad)),
		hx.Swap("outerHTML"),
	)
}

// HeaderLoading renders the header whose profile did not arrive. Nothing
// re-requests it.
func HeaderLoading() gomponents.Node {
	return headerShell()
}

// HeaderProfile renders the signed-in user's header.
func HeaderProfile(profile domain.ProfileSummary) gomponents.Node {
	return headerShell(
		html.Div(html.Class("flex items-center space-x-4"),
			html.Div(gomponents.Textf("Logged in as %s", profile.Name())),
			html.Form(html.Method("post"), html.Action("/logout"),
				html.Button(html.Type("submit"), html.Class("underline"), gomponents.Text("Sign out")),
			),
		),
	)
}
