// Package selection tracks which items are selected and reports the
// aggregate selection of the displayed list.
package selection

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/model"
)

// Mode is the selection state machine
type Mode int

const (
	// Normal permits no selection operations
	Normal Mode = iota
	// Single keeps at most one non-fixed item selected
	Single
	// Multi toggles items independently
	Multi
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "normal"
	}
}

// ParseMode maps a name to a Mode, defaulting to Normal
func ParseMode(name string) Mode {
	switch name {
	case "single":
		return Single
	case "multi":
		return Multi
	default:
		return Normal
	}
}

// ChangePayload is attached to the change notification of every item whose
// selection flips.
const ChangePayload = "selection"

// Host is the list the coordinator works on
type Host interface {
	// DisplayedRows returns the rows currently shown
	DisplayedRows() model.Rows
	// Walk visits every source item depth-first until fn returns false
	Walk(fn func(item *model.Item) bool)
	// NotifyItemChanged schedules a targeted update for item
	NotifyItemChanged(item *model.Item, payload any)
}

// Aggregate is the selection as seen in the displayed rows
type Aggregate struct {
	Items   []*model.Item
	Indexes []int
	All     bool // every body row is selected
}

// Listener receives the aggregate after selection changes
type Listener func(Aggregate)

// BatchOption modifies a bulk operation
type BatchOption func(*batch)

type batch struct {
	force bool
}

// Force notifies listeners even when the batch is empty
func Force() BatchOption {
	return func(b *batch) { b.force = true }
}

// Coordinator applies selection operations. It must only be used from the
// main thread.
type Coordinator struct {
	host   Host
	logger *log.Logger
	mode   Mode
	fixed  map[*model.Item]bool

	listeners []Listener
	last      []int
}

// New creates a coordinator in Normal mode
func New(host Host, logger *log.Logger) *Coordinator {
	return &Coordinator{
		host:   host,
		logger: logging.OrDiscard(logger),
		fixed:  make(map[*model.Item]bool),
	}
}

// Mode returns the current mode
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// SetMode switches modes. Existing selection flags are kept.
func (c *Coordinator) SetMode(m Mode) {
	if c.mode == m {
		return
	}
	c.logger.Debug("selection mode", "from", c.mode, "to", m)
	c.mode = m
}

// OnChange registers an aggregate listener and returns a function that
// removes it.
func (c *Coordinator) OnChange(fn Listener) func() {
	c.listeners = append(c.listeners, fn)
	idx := len(c.listeners) - 1
	return func() {
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

// SetFixed replaces the fixed set. Fixed items are selected immediately and
// cannot be deselected.
func (c *Coordinator) SetFixed(items ...*model.Item) {
	c.fixed = make(map[*model.Item]bool, len(items))
	changed := false
	for _, item := range items {
		c.fixed[item] = true
		if !item.Selected {
			c.apply(item, true)
			changed = true
		}
	}
	if changed {
		c.notify()
	}
}

// IsFixed reports whether item is in the fixed set
func (c *Coordinator) IsFixed(item *model.Item) bool {
	return c.fixed[item]
}

// Select selects item. In Single mode every other selected item that is
// not fixed is deselected first.
func (c *Coordinator) Select(item *model.Item) bool {
	if !c.allowed("select") {
		return false
	}
	if c.selectOne(item) {
		c.notify()
		return true
	}
	return false
}

// Deselect deselects item; fixed items stay selected
func (c *Coordinator) Deselect(item *model.Item) bool {
	if !c.allowed("deselect") {
		return false
	}
	if c.change(item, false) {
		c.notify()
		return true
	}
	return false
}

// Toggle flips the selection of item
func (c *Coordinator) Toggle(item *model.Item) bool {
	if item.Selected {
		return c.Deselect(item)
	}
	return c.Select(item)
}

// SelectItems selects or deselects every item and notifies once when
// anything changed, or always with Force
func (c *Coordinator) SelectItems(items []*model.Item, selected bool, opts ...BatchOption) int {
	if !c.allowed("select items") {
		return 0
	}
	var b batch
	for _, opt := range opts {
		opt(&b)
	}

	n := 0
	for _, item := range items {
		var ok bool
		if selected {
			ok = c.selectOne(item)
		} else {
			ok = c.change(item, false)
		}
		if ok {
			n++
		}
	}
	if n > 0 || b.force {
		c.notify()
	}
	return n
}

// SelectPositions selects the displayed rows at positions
func (c *Coordinator) SelectPositions(positions []int, selected bool, opts ...BatchOption) int {
	rows := c.host.DisplayedRows()
	var items []*model.Item
	for _, pos := range positions {
		if pos >= 0 && pos < len(rows) {
			items = append(items, rows[pos].Item)
		}
	}
	return c.SelectItems(items, selected, opts...)
}

// SelectRange selects the displayed rows from..to inclusive, in either order
func (c *Coordinator) SelectRange(from, to int, selected bool, opts ...BatchOption) int {
	if from > to {
		from, to = to, from
	}
	var positions []int
	for pos := from; pos <= to; pos++ {
		positions = append(positions, pos)
	}
	return c.SelectPositions(positions, selected, opts...)
}

// SelectAll selects or deselects every displayed body row
func (c *Coordinator) SelectAll(selected bool, opts ...BatchOption) int {
	var items []*model.Item
	for _, r := range c.host.DisplayedRows() {
		if r.Section == model.Body {
			items = append(items, r.Item)
		}
	}
	return c.SelectItems(items, selected, opts...)
}

// Aggregate computes the selection of the displayed rows
func (c *Coordinator) Aggregate() Aggregate {
	var agg Aggregate
	body := 0
	selectedBody := 0
	for i, r := range c.host.DisplayedRows() {
		if r.Section == model.Body {
			body++
		}
		if !r.Item.Selected {
			continue
		}
		agg.Items = append(agg.Items, r.Item)
		agg.Indexes = append(agg.Indexes, i)
		if r.Section == model.Body {
			selectedBody++
		}
	}
	agg.All = body > 0 && selectedBody == body
	return agg
}

// AfterDispatch re-evaluates the aggregate once the displayed rows changed
// and notifies listeners when selected positions moved.
func (c *Coordinator) AfterDispatch(model.Rows) {
	if len(c.listeners) == 0 {
		return
	}
	agg := c.Aggregate()
	if slices.Equal(agg.Indexes, c.last) {
		return
	}
	c.fan(agg)
}

func (c *Coordinator) allowed(op string) bool {
	if c.mode == Normal {
		c.logger.Warn("selection operation ignored in normal mode", "op", op)
		return false
	}
	return true
}

func (c *Coordinator) selectOne(item *model.Item) bool {
	if c.mode == Single {
		if !item.Selected && !c.selectable(item, false, true) {
			return false
		}
		changed := false
		c.host.Walk(func(other *model.Item) bool {
			if other != item && other.Selected && c.change(other, false) {
				changed = true
			}
			return true
		})
		return c.change(item, true) || changed
	}
	return c.change(item, true)
}

func (c *Coordinator) selectable(item *model.Item, from, to bool) bool {
	if s, ok := item.Data.(model.Selectable); ok {
		return s.IsSelectable(item, from, to)
	}
	return true
}

// change flips one item without notifying aggregate listeners
func (c *Coordinator) change(item *model.Item, selected bool) bool {
	if item == nil || item.Selected == selected {
		return false
	}
	if !selected && c.fixed[item] {
		return false
	}
	if !c.selectable(item, item.Selected, selected) {
		return false
	}
	c.apply(item, selected)
	return true
}

func (c *Coordinator) apply(item *model.Item, selected bool) {
	item.SetSelected(selected)
	if o, ok := item.Data.(model.StateObserver); ok {
		o.StateChanged(item, ChangePayload)
	}
	c.host.NotifyItemChanged(item, ChangePayload)
}

func (c *Coordinator) notify() {
	c.fan(c.Aggregate())
}

func (c *Coordinator) fan(agg Aggregate) {
	c.last = agg.Indexes
	for _, fn := range c.listeners {
		if fn != nil {
			fn(agg)
		}
	}
}
