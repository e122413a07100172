// Package components holds the htmx fragments of the grid page.
package components

import (
	"fmt"
	"net/url"
)

// Trigger fired on body once the page's client handle exists.
const HandleReadyEvent = "handle-ready"

func pagePath(pageID, rest string) string {
	return "/pages/" + url.PathEscape(pageID) + rest
}

// HeaderPath is the header fragment URL.
func HeaderPath(pageID string) string { return pagePath(pageID, "/header") }

// GridPath is the grid fragment URL.
func GridPath(pageID string) string { return pagePath(pageID, "/grid") }

// RowPath is the URL of one grid row.
func RowPath(pageID string, row int) string { return pagePath(pageID, fmt.Sprintf("/rows/%d", row)) }

// PostPath is the latest-post fragment URL for an actor.
func PostPath(pageID, actor string) string {
	return pagePath(pageID, "/posts?"+url.Values{"actor": {actor}}.Encode())
}

// EventsPath is the page's event socket.
func EventsPath(pageID string) string { return pagePath(pageID, "/events") }

// waitForHandle is the trigger of a view that has not loaded yet. Views in
// the shell also fire on load; swapped-in placeholders only wait.
func waitForHandle(onLoad bool) string {
	if onLoad {
		return "load, " + HandleReadyEvent + " from:body"
	}
	return HandleReadyEvent + " from:body"
}
