// Package model contains the item model shared by the filter, diff and dispatch layers
package model

import (
	"reflect"

	"github.com/oklog/ulid/v2"
)

// Section identifies which backing collection a row came from
type Section int

const (
	Header Section = iota
	Body
	Footer
	Sentinel // synthetic status or load-more row
)

func (s Section) String() string {
	switch s {
	case Header:
		return "header"
	case Body:
		return "body"
	case Footer:
		return "footer"
	case Sentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Item represents a single displayable unit of a list
type Item struct {
	Tag        string // optional stable lookup key, unrelated to diff identity
	Text       string
	Hidden     bool
	GroupHead  bool
	Expanded   bool
	Selected   bool
	Decoration bool
	SpanCount  int
	Children   []*Item
	Data       any // variant payload, may implement the capability interfaces

	rev     uint64
	loading bool
	loaded  bool
}

// NewItem creates a new item with the given text
func NewItem(text string) *Item {
	return &Item{
		Text:      text,
		SpanCount: 1,
	}
}

// NewGroup creates a group head item
func NewGroup(text string, expanded bool) *Item {
	item := NewItem(text)
	item.GroupHead = true
	item.Expanded = expanded
	return item
}

// NewTag generates a unique, time-sortable tag
func NewTag() string {
	return ulid.Make().String()
}

// Touch marks the item content as changed so the next diff reports it
func (i *Item) Touch() {
	i.rev++
}

// Revision returns the content revision counter
func (i *Item) Revision() uint64 {
	return i.rev
}

// SetText updates the text and touches the item
func (i *Item) SetText(text string) {
	if i.Text == text {
		return
	}
	i.Text = text
	i.Touch()
}

// SetExpanded changes the expanded flag
func (i *Item) SetExpanded(expanded bool) {
	if i.Expanded == expanded {
		return
	}
	i.Expanded = expanded
	i.Touch()
}

// SetHidden changes the hidden flag
func (i *Item) SetHidden(hidden bool) {
	if i.Hidden == hidden {
		return
	}
	i.Hidden = hidden
	i.Touch()
}

// SetSelected changes the selected flag
func (i *Item) SetSelected(selected bool) {
	if i.Selected == selected {
		return
	}
	i.Selected = selected
	i.Touch()
}

// AddChild appends a sub-item
func (i *Item) AddChild(child *Item) {
	i.Children = append(i.Children, child)
	i.loaded = true
	i.Touch()
}

// RemoveChild removes a sub-item
func (i *Item) RemoveChild(child *Item) bool {
	for idx, c := range i.Children {
		if c == child {
			i.Children = append(i.Children[:idx:idx], i.Children[idx+1:]...)
			i.Touch()
			return true
		}
	}
	return false
}

// SetChildren replaces the sub-items, marking them as loaded
func (i *Item) SetChildren(children []*Item) {
	i.Children = children
	i.loaded = true
	i.loading = false
	i.Touch()
}

// HasChildren reports whether the item has or may lazily load sub-items
func (i *Item) HasChildren() bool {
	if len(i.Children) > 0 {
		return true
	}
	_, ok := i.Data.(ChildLoader)
	return ok && !i.loaded
}

// Loading reports whether a lazy child load is in flight
func (i *Item) Loading() bool {
	return i.loading
}

// Loaded reports whether lazily loaded children have arrived
func (i *Item) Loaded() bool {
	return i.loaded
}

// MarkLoading flags a lazy child load as started
func (i *Item) MarkLoading() {
	if i.loading {
		return
	}
	i.loading = true
	i.Touch()
}

// FailLoading clears the loading flag without storing children
func (i *Item) FailLoading() {
	i.loading = false
	i.loaded = true
	i.Touch()
}

// SearchText returns the text used by query matching
func (i *Item) SearchText() string {
	if s, ok := i.Data.(Searchable); ok {
		return s.SearchText()
	}
	return i.Text
}

// State captures the display-relevant part of the item
func (i *Item) State() State {
	return State{
		Text:      i.Text,
		Hidden:    i.Hidden,
		GroupHead: i.GroupHead,
		Expanded:  i.Expanded,
		Selected:  i.Selected,
		Loading:   i.loading,
		SpanCount: i.SpanCount,
		Rev:       i.rev,
	}
}

// SameIdentity reports whether two rows show the same logical item. Only
// the snapshots taken when the rows were built are read, so it is safe to
// call while the items change on another goroutine.
func SameIdentity(a, b Row) bool {
	if a.Item == b.Item {
		return true
	}
	if a.Item == nil || b.Item == nil {
		return false
	}
	if id, ok := a.Data.(Identifier); ok {
		return id.SameIdentity(a, b)
	}
	return comparableEqual(a.Data, b.Data)
}

// SameContent reports whether two rows of the same identity render identically
func SameContent(old, new Row) bool {
	if c, ok := new.Data.(ContentComparer); ok {
		return c.SameContent(old, new)
	}
	return old.State == new.State && old.Depth == new.Depth
}

func comparableEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
