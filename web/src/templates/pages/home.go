// Package pages holds the bodies of full-page responses.
package pages

import (
	"github.com/nfrund/gridsky/web/src/templates/components"
	"maragu.dev/gomponents"
)

// Home is the shell of a page instance. Both views start waiting for the
// client handle and load themselves once it exists.
func Home(pageID string) gomponents.Node {
	return gomponents.Group{
		components.HeaderWaiting(pageID, true),
		components.GridWaiting(pageID, true),
	}
}
