package filter

import (
	"time"

	"github.com/pstuifzand/listkit/internal/model"
)

// StatusSource reports the sentinel item for the current adapter status
type StatusSource interface {
	// StatusItem returns nil while the list shows its normal content
	StatusItem() *model.Item
}

// Status replaces the whole list with the status sentinel and halts the chain
type Status struct {
	Source StatusSource
}

func (s *Status) Intercept(c *Call) model.Rows {
	item := s.Source.StatusItem()
	if item == nil {
		return c.Rows
	}
	c.Interrupt()
	return model.Rows{model.NewRow(item, model.Sentinel)}
}

// GroupCollapse omits the child span of collapsed group heads. The span of
// a head runs up to the next head or the start of the footer collection.
type GroupCollapse struct{}

func (GroupCollapse) Intercept(c *Call) model.Rows {
	rows := c.Rows.Clone()
	keep := make([]bool, len(rows))
	for i := range keep {
		keep[i] = true
	}
	for i := 0; i < len(rows); i++ {
		head := rows[i]
		if !head.Item.GroupHead || head.Section == model.Sentinel || !keep[i] {
			continue
		}
		end := i + 1
		for end < len(rows) {
			r := rows[end]
			if r.Section == model.Footer && head.Section != model.Footer {
				break
			}
			if r.Section == model.Sentinel || r.Depth < head.Depth {
				break
			}
			if r.Item.GroupHead && r.Depth == head.Depth {
				break
			}
			end++
		}
		for j := i + 1; j < end; j++ {
			if rows[j].Depth == head.Depth && rows[j].Parent == head.Parent {
				rows[j].Parent = i
			}
			if !head.Item.Expanded {
				keep[j] = false
			}
		}
	}
	return model.Compact(rows, keep)
}

// SubItems expands the nested children of expanded items depth-first.
// Hidden items are dropped with their subtree; children that have not been
// loaded yet are requested through the call hooks.
type SubItems struct{}

func (SubItems) Intercept(c *Call) model.Rows {
	out := make(model.Rows, 0, len(c.Rows))
	newIdx := make([]int, len(c.Rows))
	onPath := make(map[*model.Item]bool)

	var emit func(r model.Row)
	emit = func(r model.Row) {
		item := r.Item
		if item.Hidden || onPath[item] {
			return
		}
		_, lazy := item.Data.(model.ChildLoader)
		if item.Expanded && lazy && len(item.Children) == 0 && !item.Loaded() && !item.Loading() {
			c.RequestChildren(item)
		}
		r.State = item.State()
		idx := len(out)
		out = append(out, r)
		if !item.Expanded || len(item.Children) == 0 {
			return
		}
		// the loader may replace the slice while we walk it
		children := make([]*model.Item, len(item.Children))
		copy(children, item.Children)

		onPath[item] = true
		for _, child := range children {
			if child == nil {
				continue
			}
			row := model.NewRow(child, r.Section)
			row.Depth = r.Depth + 1
			row.Parent = idx
			emit(row)
		}
		delete(onPath, item)
	}

	for i, r := range c.Rows {
		newIdx[i] = -1
		if r.Parent >= 0 {
			if r.Parent >= i || newIdx[r.Parent] < 0 {
				continue
			}
			r.Parent = newIdx[r.Parent]
		}
		before := len(out)
		emit(r)
		if len(out) > before {
			newIdx[i] = before
		}
	}
	return out
}

// Hidden removes hidden items in two passes: items hidden by another item's
// Hider relation, then items with their own Hidden flag set.
type Hidden struct{}

func (Hidden) Intercept(c *Call) model.Rows {
	rows := c.Rows
	hidden := make([]bool, len(rows))

	for i, current := range rows {
		hider, ok := current.Item.Data.(model.Hider)
		if !ok {
			continue
		}
		hits := 0
		for j, candidate := range rows {
			if i == j {
				continue
			}
			if hider.Hides(current.Item, candidate.Item) {
				hidden[j] = true
				hits++
			}
		}
		if hits > 0 && c.Params.SourceItem != nil && current.Item == c.Params.SourceItem {
			c.Params.EmptyDependentsStillDispatch = true
		}
	}

	keep := make([]bool, len(rows))
	for i, r := range rows {
		keep[i] = !hidden[i] && !r.Item.Hidden
	}
	return model.Compact(rows, keep)
}

// DecorationTrim drops decoration rows at either edge of the list and
// decorations that directly follow another decoration.
type DecorationTrim struct{}

func (DecorationTrim) Intercept(c *Call) model.Rows {
	rows := c.Rows
	keep := make([]bool, len(rows))
	prevDecoration := true // a leading decoration counts as following one
	last := -1
	for i, r := range rows {
		if r.Item.Decoration {
			if prevDecoration {
				continue
			}
			prevDecoration = true
		} else {
			prevDecoration = false
		}
		keep[i] = true
		last = i
	}
	for last >= 0 && rows[last].Item.Decoration {
		keep[last] = false
		last--
		for last >= 0 && !keep[last] {
			last--
		}
	}
	return model.Compact(rows, keep)
}

// Batch reveals a long list in steps. A pass only exposes one more step
// after the previous truncated pass was committed, so passes that never
// reached the view do not use up steps. The owner asks for the next pass
// after Delay.
type Batch struct {
	Step  int
	Delay time.Duration

	revealed int
}

func (b *Batch) Intercept(c *Call) model.Rows {
	if b.Step <= 0 {
		return c.Rows
	}
	shown := max(b.revealed, b.Step)
	if len(c.Rows) <= shown {
		return c.Rows
	}
	c.Params.batchShown = shown
	return model.Truncate(c.Rows, shown)
}

// Commit records that the pass built with p reached the view and reports
// whether that pass held rows back.
func (b *Batch) Commit(p *Params) bool {
	if p == nil || p.batchShown == 0 {
		return false
	}
	if next := p.batchShown + b.Step; next > b.revealed {
		b.revealed = next
	}
	return true
}

// Revealed returns how many rows the next pass exposes
func (b *Batch) Revealed() int {
	return max(b.revealed, b.Step)
}

// Reset starts revealing from the first step again
func (b *Batch) Reset() {
	b.revealed = 0
}

// MaxCount clamps the list to Max rows when Max is positive
type MaxCount struct {
	Max int
}

func (m *MaxCount) Intercept(c *Call) model.Rows {
	if m.Max <= 0 {
		return c.Rows
	}
	return model.Truncate(c.Rows, m.Max)
}

// LoadMoreSource reports the load-more sentinel
type LoadMoreSource interface {
	// LoadMoreItem returns nil when load-more is disabled
	LoadMoreItem() *model.Item
	StatusActive() bool
}

// LoadMore appends the load-more sentinel to the end of the list
type LoadMore struct {
	Source LoadMoreSource
}

func (l *LoadMore) Intercept(c *Call) model.Rows {
	if l.Source.StatusActive() {
		return c.Rows
	}
	item := l.Source.LoadMoreItem()
	if item == nil {
		return c.Rows
	}
	out := make(model.Rows, 0, len(c.Rows)+1)
	out = append(out, c.Rows...)
	return append(out, model.NewRow(item, model.Sentinel))
}
