package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(count int) *Virtualizer {
	return NewVirtualizer(Options{
		Count:        count,
		EstimateSize: func(int) int { return RowSize },
		Overscan:     1,
	})
}

func indexes(items []VirtualItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Index
	}
	return out
}

func TestVirtualizer_TotalSize(t *testing.T) {
	assert.Equal(t, 0, rows(0).TotalSize())
	assert.Equal(t, RowSize, rows(1).TotalSize())
	assert.Equal(t, 13*RowSize, rows(13).TotalSize())
}

func TestVirtualizer_Item(t *testing.T) {
	v := rows(3)

	item := v.Item(2)
	assert.Equal(t, 2, item.Index)
	assert.Equal(t, 2, item.Key)
	assert.Equal(t, 2*RowSize, item.Start)
	assert.Equal(t, RowSize, item.Size)
	assert.Equal(t, 3*RowSize, item.End())
}

func TestVirtualizer_VirtualItems(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		offset   int
		viewport int
		want     []int
	}{
		{name: "empty list", count: 0, offset: 0, viewport: 1200, want: nil},
		{name: "top of page", count: 13, offset: 0, viewport: 1200, want: []int{0, 1, 2, 3}},
		{name: "scrolled to the middle", count: 13, offset: 5 * RowSize, viewport: RowSize, want: []int{4, 5, 6}},
		{name: "partial row at bottom edge", count: 13, offset: 5*RowSize + 10, viewport: RowSize, want: []int{4, 5, 6, 7}},
		{name: "end of list", count: 13, offset: 12 * RowSize, viewport: 1200, want: []int{11, 12}},
		{name: "past the end clamps", count: 3, offset: 10 * RowSize, viewport: 1200, want: []int{1, 2}},
		{name: "list shorter than viewport", count: 2, offset: 0, viewport: 5000, want: []int{0, 1}},
		{name: "zero viewport", count: 5, offset: 0, viewport: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := rows(tt.count).VirtualItems(tt.offset, tt.viewport)
			if tt.want == nil {
				assert.Empty(t, items)
				return
			}
			assert.Equal(t, tt.want, indexes(items))
		})
	}
}

func TestVirtualizer_VariableSizes(t *testing.T) {
	sizes := []int{100, 300, 50, 50}
	v := NewVirtualizer(Options{
		Count:        len(sizes),
		EstimateSize: func(i int) int { return sizes[i] },
	})

	require.Equal(t, 500, v.TotalSize())
	assert.Equal(t, 400, v.Item(2).Start)
	assert.Equal(t, []int{1}, indexes(v.VirtualItems(150, 100)))
	assert.Equal(t, []int{1, 2}, indexes(v.VirtualItems(350, 75)))
}
