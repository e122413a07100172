package components

import (
	"fmt"

	"github.com/nfrund/gridsky/internal/domain"
	"github.com/nfrund/gridsky/internal/grid"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// FollowsLoadingText is shown until the follows list arrives.
const FollowsLoadingText = "loading follows..."

// GridWaiting renders the grid before the follows list can be requested.
func GridWaiting(pageID string, onLoad bool) gomponents.Node {
	return html.Div(html.ID("grid"),
		hx.Get(GridPath(pageID)),
		hx.Trigger(waitForHandle(onLoad)),
		hx.Swap("outerHTML"),
		gomponents.Text(FollowsLoadingText),
	)
}

// GridLoading renders a grid whose follows list did not arrive.
func GridLoading() gomponents.Node {
	return html.Div(html.ID("grid"), gomponents.Text(FollowsLoadingText))
}

// GridProps describes a loaded grid.
type GridProps struct {
	PageID    string
	Heading   string
	Layout    grid.Layout
	TotalSize int
	Rows      []grid.VirtualItem
	Mounted   map[int]bool
}

// Grid renders the virtualized follows grid. Mounted rows carry their
// cards; the others are fixed-height placeholders that load when revealed.
func Grid(p GridProps) gomponents.Node {
	return html.Div(html.ID("grid"), html.Class("space-y-2"),
		html.Div(html.Class("text-sm text-gray-600"), gomponents.Text(p.Heading)),
		html.Div(
			html.Style(fmt.Sprintf("height: %dpx; position: relative;", p.TotalSize)),
			gomponents.Map(p.Rows, func(item grid.VirtualItem) gomponents.Node {
				if p.Mounted[item.Index] {
					return Row(p.PageID, item, p.Layout.Row(item.Index))
				}
				return RowPlaceholder(p.PageID, item)
			}),
		),
	)
}

func rowStyle(item grid.VirtualItem) string {
	return fmt.Sprintf(
		"position: absolute; top: 0; left: 0; width: 100%%; height: %dpx; transform: translateY(%dpx); padding-bottom: %dpx;",
		item.Size, item.Start, grid.Gap,
	)
}

func rowID(index int) string {
	return fmt.Sprintf("row-%d", index)
}

// Row renders a mounted row of up to grid.Columns cards.
func Row(pageID string, item grid.VirtualItem, cards []domain.ProfileSummary) gomponents.Node {
	return html.Div(html.ID(rowID(item.Index)), html.Class("grid grid-cols-4 gap-2"), html.Style(rowStyle(item)),
		gomponents.Map(cards, func(profile domain.ProfileSummary) gomponents.Node {
			return Card(pageID, profile)
		}),
	)
}

// RowPlaceholder reserves the space of an unmounted row.
func RowPlaceholder(pageID string, item grid.VirtualItem) gomponents.Node {
	return html.Div(html.ID(rowID(item.Index)), html.Style(rowStyle(item)),
		hx.Get(RowPath(pageID, item.Index)),
		hx.Trigger("revealed"),
		hx.Swap("outerHTML"),
	)
}
