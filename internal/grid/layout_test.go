package grid

import (
	"fmt"
	"testing"

	"github.com/nfrund/gridsky/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func follows(n int) domain.FollowsList {
	list := make(domain.FollowsList, n)
	for i := range list {
		list[i] = domain.ProfileSummary{Handle: fmt.Sprintf("user%d.bsky.social", i)}
	}
	return list
}

func TestRows(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{8, 2},
		{9, 3},
		{50, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rows(tt.count), "Rows(%d)", tt.count)
	}
}

func TestLayout_EmptyList(t *testing.T) {
	l := NewLayout(nil)

	assert.Equal(t, 0, l.Rows())
	assert.Empty(t, l.Row(0))
	assert.Equal(t, 0, l.Virtualizer().TotalSize())
}

func TestLayout_FiveFollows(t *testing.T) {
	l := NewLayout(follows(5))

	require.Equal(t, 2, l.Rows())

	first := l.Row(0)
	require.Len(t, first, 4)
	for i, p := range first {
		assert.Equal(t, fmt.Sprintf("user%d.bsky.social", i), p.Handle)
	}

	second := l.Row(1)
	require.Len(t, second, 1, "cells past the end of the list render nothing")
	assert.Equal(t, "user4.bsky.social", second[0].Handle)

	_, ok := l.Cell(1, 1)
	assert.False(t, ok)
	_, ok = l.Cell(0, Columns)
	assert.False(t, ok)

	assert.Equal(t, 2*RowSize, l.Virtualizer().TotalSize())
}

func TestLayout_EveryProfileAppearsOnce(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7, 12, 13} {
		l := NewLayout(follows(n))

		seen := map[string]int{}
		for r := 0; r < l.Rows(); r++ {
			for _, p := range l.Row(r) {
				seen[p.Handle]++
			}
		}
		assert.Len(t, seen, n)
		for handle, count := range seen {
			assert.Equal(t, 1, count, handle)
		}
	}
}
