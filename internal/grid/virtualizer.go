package grid

// Options configures a Virtualizer.
type Options struct {
	// Count is the number of items in the list.
	Count int
	// EstimateSize returns the size in pixels of item i.
	EstimateSize func(i int) int
	// Overscan is the number of extra items mounted on each side of the
	// visible range.
	Overscan int
}

// VirtualItem is one mounted item of the list.
type VirtualItem struct {
	Key   int
	Index int
	Start int
	Size  int
}

// End returns the offset just past the item.
func (v VirtualItem) End() int {
	return v.Start + v.Size
}

// Virtualizer computes the total scrollable extent of a list and the subset of
// items intersecting a viewport.
type Virtualizer struct {
	opts   Options
	starts []int
	total  int
}

// NewVirtualizer measures every item once using the size estimator.
func NewVirtualizer(opts Options) *Virtualizer {
	if opts.Count < 0 {
		opts.Count = 0
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}

	v := &Virtualizer{opts: opts, starts: make([]int, opts.Count+1)}
	offset := 0
	for i := 0; i < opts.Count; i++ {
		v.starts[i] = offset
		offset += opts.EstimateSize(i)
	}
	v.starts[opts.Count] = offset
	v.total = offset
	return v
}

// TotalSize returns the full scrollable extent in pixels.
func (v *Virtualizer) TotalSize() int {
	return v.total
}

// Item returns the measurements of item i.
func (v *Virtualizer) Item(i int) VirtualItem {
	return VirtualItem{
		Key:   i,
		Index: i,
		Start: v.starts[i],
		Size:  v.starts[i+1] - v.starts[i],
	}
}

// VirtualItems returns the items intersecting [offset, offset+viewport),
// widened by the overscan on both sides.
func (v *Virtualizer) VirtualItems(offset, viewport int) []VirtualItem {
	if v.opts.Count == 0 || viewport <= 0 {
		return nil
	}
	if offset < 0 {
		offset = 0
	}

	first := v.indexAt(offset)
	last := v.indexAt(offset + viewport - 1)

	first = max(0, first-v.opts.Overscan)
	last = min(v.opts.Count-1, last+v.opts.Overscan)

	items := make([]VirtualItem, 0, last-first+1)
	for i := first; i <= last; i++ {
		items = append(items, v.Item(i))
	}
	return items
}

// indexAt returns the item containing the pixel offset, clamped to the list.
func (v *Virtualizer) indexAt(offset int) int {
	lo, hi := 0, v.opts.Count-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if v.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
