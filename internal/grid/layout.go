// Package grid maps the follows list onto fixed-width rows and computes which
// rows fall inside the scroll window.
package grid

import "github.com/nfrund/gridsky/internal/domain"

const (
	// Columns is the number of cards per row.
	Columns = 4
	// BlockHeight is the fixed card height in pixels.
	BlockHeight = 400
	// Gap is the vertical space between rows in pixels.
	Gap = 8
	// RowSize is the size estimate handed to the virtualizer.
	RowSize = BlockHeight + Gap
)

// Layout arranges profiles into rows of Columns cells, preserving order.
type Layout struct {
	follows domain.FollowsList
}

// NewLayout creates a Layout over follows.
func NewLayout(follows domain.FollowsList) Layout {
	return Layout{follows: follows}
}

// Rows returns ceil(len(follows) / Columns).
func Rows(count int) int {
	return (count + Columns - 1) / Columns
}

// Rows returns the number of rows in the layout.
func (l Layout) Rows() int {
	return Rows(len(l.follows))
}

// Len returns the number of profiles.
func (l Layout) Len() int {
	return len(l.follows)
}

// Cell returns the profile at row, column. ok is false for cells past the
// end of the list, which render no card.
func (l Layout) Cell(row, column int) (profile domain.ProfileSummary, ok bool) {
	if row < 0 || column < 0 || column >= Columns {
		return domain.ProfileSummary{}, false
	}
	i := row*Columns + column
	if i >= len(l.follows) {
		return domain.ProfileSummary{}, false
	}
	return l.follows[i], true
}

// Row returns the profiles of a row, in order. The last row may hold fewer
// than Columns profiles.
func (l Layout) Row(row int) []domain.ProfileSummary {
	cards := make([]domain.ProfileSummary, 0, Columns)
	for column := 0; column < Columns; column++ {
		if p, ok := l.Cell(row, column); ok {
			cards = append(cards, p)
		}
	}
	return cards
}

// Virtualizer returns a windowing calculator sized for this layout.
func (l Layout) Virtualizer() *Virtualizer {
	return NewVirtualizer(Options{
		Count:        l.Rows(),
		EstimateSize: func(int) int { return RowSize },
		Overscan:     1,
	})
}
