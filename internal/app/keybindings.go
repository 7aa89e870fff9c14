package app

import (
	"fmt"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/selection"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// PendingKeyBinding represents a prefix key (like 'g' or 'z') that waits
// for a second key
type PendingKeyBinding struct {
	Prefix      rune
	Description string
	Sequences   map[rune]KeyBinding
}

// InitializeKeybindings sets up the single-key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{Key: 'j', Description: "Move down", Handler: func(app *App) { app.view.MoveCursor(1) }},
		{Key: 'k', Description: "Move up", Handler: func(app *App) { app.view.MoveCursor(-1) }},
		{Key: 'G', Description: "Go to bottom", Handler: func(app *App) { app.view.SetCursor(app.view.Len() - 1) }},
		{Key: 'l', Description: "Expand or collapse", Handler: func(app *App) { app.toggleExpand() }},
		{Key: ' ', Description: "Toggle selection", Handler: func(app *App) { app.toggleSelection() }},
		{Key: 's', Description: "Cycle selection mode", Handler: func(app *App) { app.cycleSelectionMode() }},
		{Key: 'a', Description: "Select all", Handler: func(app *App) { app.selectAll(true) }},
		{Key: 'd', Description: "Deselect all", Handler: func(app *App) { app.selectAll(false) }},
		{Key: 'n', Description: "New item below", Handler: func(app *App) { app.addItem() }},
		{Key: 'x', Description: "Remove item", Handler: func(app *App) { app.removeItem() }},
		{Key: 'J', Description: "Move item down", Handler: func(app *App) { app.moveItem(1) }},
		{Key: 'K', Description: "Move item up", Handler: func(app *App) { app.moveItem(-1) }},
		{Key: 'h', Description: "Toggle hidden", Handler: func(app *App) { app.toggleHidden() }},
		{Key: 'U', Description: "Unhide all", Handler: func(app *App) { app.unhideAll() }},
		{Key: 'm', Description: "Toggle load more", Handler: func(app *App) { app.toggleLoadMore() }},
		{Key: '/', Description: "Filter", Handler: func(app *App) { app.prompt.Start(app.list.Query()) }},
		{Key: 'q', Description: "Quit", Handler: func(app *App) { app.Quit() }},
	}
}

// InitializePendingKeybindings sets up the prefix bindings
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	status := func(s adapter.Status) func(*App) {
		return func(app *App) {
			app.list.SetStatus(s)
			app.SetStatus("Status: " + s.String())
		}
	}
	return []PendingKeyBinding{
		{
			Prefix:      'g',
			Description: "Go to",
			Sequences: map[rune]KeyBinding{
				'g': {Key: 'g', Description: "Go to top", Handler: func(app *App) { app.view.SetCursor(0) }},
			},
		},
		{
			Prefix:      'z',
			Description: "Status display",
			Sequences: map[rune]KeyBinding{
				'e': {Key: 'e', Description: "Show empty", Handler: status(adapter.StatusEmpty)},
				'l': {Key: 'l', Description: "Show loading", Handler: status(adapter.StatusLoading)},
				'x': {Key: 'x', Description: "Show error", Handler: status(adapter.StatusError)},
				'p': {Key: 'p', Description: "Show preloading", Handler: status(adapter.StatusPreLoading)},
				'z': {Key: 'z', Description: "Show content", Handler: status(adapter.StatusNone)},
			},
		},
	}
}

func (a *App) toggleExpand() {
	item := a.view.CursorItem()
	if item == nil || !(item.GroupHead || item.HasChildren()) {
		return
	}
	item.SetExpanded(!item.Expanded)
	a.list.Notify(item, nil)
}

func (a *App) toggleSelection() {
	item := a.view.CursorItem()
	if item == nil {
		return
	}
	if a.list.Selection().Mode() == selection.Normal {
		a.SetStatus("Selection is off, press s to change mode")
		return
	}
	a.list.Selection().Toggle(item)
}

func (a *App) cycleSelectionMode() {
	sel := a.list.Selection()
	next := (sel.Mode() + 1) % 3
	sel.SetMode(next)
	a.SetStatus("Selection mode: " + next.String())
}

func (a *App) selectAll(selected bool) {
	n := a.list.Selection().SelectAll(selected)
	a.SetStatus(fmt.Sprintf("%d items changed", n))
}

// bodyIndex returns the body position of the cursor item
func (a *App) bodyIndex() (*model.Item, int) {
	item := a.view.CursorItem()
	if item == nil {
		return nil, -1
	}
	for i, it := range a.list.Items(model.Body) {
		if it == item {
			return item, i
		}
	}
	return item, -1
}

func (a *App) addItem() {
	_, idx := a.bodyIndex()
	item := model.NewItem(fmt.Sprintf("New item %s", model.NewTag()[20:]))
	if idx < 0 {
		a.list.Add(model.Body, []*model.Item{item})
		return
	}
	a.list.Insert(model.Body, idx+1, []*model.Item{item})
}

func (a *App) removeItem() {
	item, idx := a.bodyIndex()
	if idx < 0 {
		a.SetStatus("Only body items can be removed")
		return
	}
	a.list.Remove(item)
	a.SetStatus("Removed " + item.Text)
}

func (a *App) moveItem(delta int) {
	_, idx := a.bodyIndex()
	to := idx + delta
	if idx < 0 || to < 0 || to >= len(a.list.Items(model.Body)) {
		return
	}
	a.list.Move(model.Body, idx, to, filter.Sync())
}

func (a *App) toggleHidden() {
	item := a.view.CursorItem()
	if item == nil {
		return
	}
	item.SetHidden(!item.Hidden)
	a.list.Notify(item, nil)
	a.SetStatus("Hidden " + item.Text)
}

func (a *App) toggleLoadMore() {
	on := !a.list.LoadMoreEnabled()
	a.list.EnableLoadMore(on)
	if on {
		a.SetStatus("Load more enabled")
	} else {
		a.SetStatus("Load more disabled")
	}
}

func (a *App) unhideAll() {
	n := 0
	a.list.Walk(func(item *model.Item) bool {
		if item.Hidden {
			item.SetHidden(false)
			n++
		}
		return true
	})
	if n > 0 {
		a.list.Refresh()
	}
	a.SetStatus(fmt.Sprintf("%d items shown", n))
}
