package model

// State is the snapshot of an item taken when a row is built
type State struct {
	Text      string
	Hidden    bool
	GroupHead bool
	Expanded  bool
	Selected  bool
	Loading   bool
	SpanCount int
	Rev       uint64
}

// Row is one entry of a filtered list. Tag, Data and State are copied from
// the item when the row is built; the diff reads nothing else.
type Row struct {
	Item    *Item
	Section Section
	Depth   int
	Parent  int // index of the enclosing row in the same slice, -1 at the root
	Tag     string
	Data    any
	State   State
}

// NewRow builds a root-level row for item
func NewRow(item *Item, section Section) Row {
	return Row{
		Item:    item,
		Section: section,
		Parent:  -1,
		Tag:     item.Tag,
		Data:    item.Data,
		State:   item.State(),
	}
}

// Rows is an ordered list of rows
type Rows []Row

// Items returns the items of the rows in order
func (rs Rows) Items() []*Item {
	items := make([]*Item, len(rs))
	for i, r := range rs {
		items[i] = r.Item
	}
	return items
}

// IndexOf returns the position of item, or -1
func (rs Rows) IndexOf(item *Item) int {
	for i, r := range rs {
		if r.Item == item {
			return i
		}
	}
	return -1
}

// ParentChain returns the ancestors of row idx, outermost first
func (rs Rows) ParentChain(idx int) []*Item {
	if idx < 0 || idx >= len(rs) {
		return nil
	}
	var chain []*Item
	for p := rs[idx].Parent; p >= 0 && p < len(rs); p = rs[p].Parent {
		chain = append(chain, rs[p].Item)
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// Clone returns a copy that shares no backing array with rs
func (rs Rows) Clone() Rows {
	if rs == nil {
		return nil
	}
	out := make(Rows, len(rs))
	copy(out, rs)
	return out
}

// Compact keeps the rows for which keep is true and whose ancestors are all
// kept. Parent indices are remapped to the new positions.
func Compact(rows Rows, keep []bool) Rows {
	newIdx := make([]int, len(rows))
	out := make(Rows, 0, len(rows))
	for i, r := range rows {
		newIdx[i] = -1
		if !keep[i] {
			continue
		}
		if r.Parent >= 0 {
			// parents always precede their children
			if r.Parent >= i || newIdx[r.Parent] < 0 {
				continue
			}
			r.Parent = newIdx[r.Parent]
		}
		newIdx[i] = len(out)
		out = append(out, r)
	}
	return out
}

// Truncate returns the first n rows
func Truncate(rows Rows, n int) Rows {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n:n]
}
