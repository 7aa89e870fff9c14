package adapter

import (
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
)

// Add appends items to a section
func (l *List) Add(section model.Section, items []*model.Item, opts ...filter.Option) {
	l.mutated("add", l.store.Append(section, items...), opts)
}

// Insert inserts items into a section at index
func (l *List) Insert(section model.Section, index int, items []*model.Item, opts ...filter.Option) {
	l.mutated("insert", l.store.Insert(section, index, items...), opts)
}

// Remove removes item from whichever section holds it
func (l *List) Remove(item *model.Item, opts ...filter.Option) {
	l.mutated("remove", l.store.Remove(item), opts)
}

// RemoveAt removes the item at index of a section
func (l *List) RemoveAt(section model.Section, index int, opts ...filter.Option) {
	l.mutated("remove at", l.store.RemoveAt(section, index), opts)
}

// Replace swaps the item at index of a section
func (l *List) Replace(section model.Section, index int, item *model.Item, opts ...filter.Option) {
	l.mutated("replace", l.store.Replace(section, index, item), opts)
}

// Move reorders an item within a section
func (l *List) Move(section model.Section, from, to int, opts ...filter.Option) {
	l.mutated("move", l.store.Move(section, from, to), opts)
}

// Reset replaces the content of a section. Resetting the body restarts
// the batch reveal.
func (l *List) Reset(section model.Section, items []*model.Item, opts ...filter.Option) {
	ok := l.store.Reset(section, items...)
	if ok && section == model.Body {
		l.batch.Reset()
	}
	l.mutated("reset", ok, opts)
}

// FindByTag looks up a source item, including sub-items, by tag
func (l *List) FindByTag(tag string) *model.Item {
	item := l.store.FindByTag(tag)
	if item == nil {
		l.logger.Warn("no item with tag", "tag", tag)
	}
	return item
}

// Notify schedules a pass scoped to item, delivering payload to its row
// and the rows that depend on it.
func (l *List) Notify(item *model.Item, payload any, opts ...filter.Option) {
	if item == nil {
		l.logger.Warn("notify without item")
		return
	}
	opts = append([]filter.Option{filter.Source(item), filter.Payload(payload)}, opts...)
	l.schedule(opts...)
}

func (l *List) mutated(op string, ok bool, opts []filter.Option) {
	if !ok {
		l.logger.Warn("mutation ignored", "op", op)
		return
	}
	l.schedule(opts...)
}

// SetStatus switches the sentinel display mode. Leaving a status always
// recomputes with default params.
func (l *List) SetStatus(status Status, opts ...filter.Option) {
	if status == l.status {
		return
	}
	prev := l.status
	l.status = status
	l.logger.Debug("status", "from", prev, "to", status)
	if status == StatusNone {
		opts = nil
	}
	l.schedule(opts...)
}

// Status returns the current display mode
func (l *List) Status() Status {
	return l.status
}

// SetStatusItem overrides the sentinel shown for status
func (l *List) SetStatusItem(status Status, item *model.Item) {
	if status == StatusNone {
		l.logger.Warn("status none has no sentinel")
		return
	}
	l.statusItems[status] = item
	if l.status == status {
		l.schedule()
	}
}

// EnableLoadMore shows or hides the load-more sentinel
func (l *List) EnableLoadMore(on bool, opts ...filter.Option) {
	if l.loadMore == on {
		return
	}
	l.loadMore = on
	l.schedule(opts...)
}

// LoadMoreEnabled reports whether the sentinel is shown
func (l *List) LoadMoreEnabled() bool {
	return l.loadMore
}

// SetLoadMoreState changes the sentinel state and label
func (l *List) SetLoadMoreState(state LoadMoreState, opts ...filter.Option) {
	if state == l.loadMoreState {
		return
	}
	l.loadMoreState = state
	l.loadMoreItem.SetText(state.Label())
	if l.loadMore {
		l.Notify(l.loadMoreItem, state, opts...)
	}
}

// LoadMoreState returns the sentinel state
func (l *List) LoadMoreState() LoadMoreState {
	return l.loadMoreState
}

// LoadMoreSentinel returns the sentinel item
func (l *List) LoadMoreSentinel() *model.Item {
	return l.loadMoreItem
}

// OnLoadMore sets the callback fired when the sentinel is bound
func (l *List) OnLoadMore(fn func()) {
	l.onLoadMore = fn
}
