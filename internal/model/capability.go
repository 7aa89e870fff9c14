package model

import "context"

// Identifier overrides diff identity for an item variant. Like
// ContentComparer it runs on the diff worker and must only read the row
// snapshots, never the live items.
type Identifier interface {
	SameIdentity(a, b Row) bool
}

// ContentComparer overrides content equality for an item variant
type ContentComparer interface {
	SameContent(old, new Row) bool
}

// Hider hides other items while self is part of the list
type Hider interface {
	Hides(self, candidate *Item) bool
}

// Dependent items are notified when the source item of a pass changes
type Dependent interface {
	DependsOn(self, source *Item) bool
}

// Selectable may veto a selection change
type Selectable interface {
	IsSelectable(item *Item, from, to bool) bool
}

// StateObserver receives the item's own state-change callback
type StateObserver interface {
	StateChanged(item *Item, payload any)
}

// ChildLoader loads sub-items on demand
type ChildLoader interface {
	LoadChildren(ctx context.Context, item *Item) ([]*Item, error)
}

// Searchable provides the text used for query matching
type Searchable interface {
	SearchText() string
}
