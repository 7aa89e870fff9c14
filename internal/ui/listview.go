package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/selection"
)

// line is the cached rendering of one displayed row
type line struct {
	bound    bool
	item     *model.Item
	section  model.Section
	text     string
	depth    int
	group    bool
	expanded bool
	selected bool
	loading  bool
	binds    int
}

// ListView draws a list and keeps its line cache in step with the edits
// the list dispatches. Lines are re-bound lazily when they are drawn.
type ListView struct {
	list   *adapter.List
	logger *log.Logger

	lines  []line
	cursor int
	offset int

	ClockFormat string
	Now         func() time.Time

	edits         int
	invalidations int
}

// NewListView creates a view for list and attaches itself as its surface
func NewListView(list *adapter.List, logger *log.Logger) *ListView {
	v := &ListView{
		list:        list,
		logger:      logging.OrDiscard(logger),
		ClockFormat: "%H:%M:%S",
		Now:         time.Now,
	}
	v.lines = make([]line, list.Len())
	list.SetSurface(v)
	return v
}

// InsertAt adds count unbound lines at pos
func (v *ListView) InsertAt(pos, count int) {
	v.edits++
	pos = min(max(pos, 0), len(v.lines))
	v.lines = slices.Insert(v.lines, pos, make([]line, count)...)
	if len(v.lines) > count && v.cursor >= pos {
		v.cursor += count
	}
}

// RemoveAt drops count lines at pos
func (v *ListView) RemoveAt(pos, count int) {
	v.edits++
	if pos < 0 || pos >= len(v.lines) {
		v.logger.Warn("remove out of range", "pos", pos, "count", count, "lines", len(v.lines))
		return
	}
	end := min(pos+count, len(v.lines))
	v.lines = slices.Delete(v.lines, pos, end)
	switch {
	case v.cursor >= end:
		v.cursor -= end - pos
	case v.cursor >= pos:
		v.cursor = pos
	}
	v.clampCursor()
}

// MoveItem moves one line, keeping the cursor on it if it was there
func (v *ListView) MoveItem(from, to int) {
	v.edits++
	if from < 0 || from >= len(v.lines) || to < 0 || to >= len(v.lines) {
		v.logger.Warn("move out of range", "from", from, "to", to, "lines", len(v.lines))
		return
	}
	l := v.lines[from]
	v.lines = slices.Delete(v.lines, from, from+1)
	v.lines = slices.Insert(v.lines, to, l)
	switch {
	case v.cursor == from:
		v.cursor = to
	case from < v.cursor && to >= v.cursor:
		v.cursor--
	case from > v.cursor && to <= v.cursor:
		v.cursor++
	}
}

// ChangeAt marks count lines for re-binding
func (v *ListView) ChangeAt(pos, count int, payload any) {
	v.edits++
	for i := pos; i < pos+count && i < len(v.lines); i++ {
		if i >= 0 {
			v.lines[i].bound = false
		}
	}
}

// InvalidateAll drops the whole cache
func (v *ListView) InvalidateAll() {
	v.invalidations++
	v.lines = make([]line, v.list.Len())
	v.clampCursor()
}

// Edits returns how many incremental edits were applied
func (v *ListView) Edits() int {
	return v.edits
}

// Invalidations returns how many full redraws were requested
func (v *ListView) Invalidations() int {
	return v.invalidations
}

// Len returns the number of cached lines
func (v *ListView) Len() int {
	return len(v.lines)
}

// Cursor returns the cursor position
func (v *ListView) Cursor() int {
	return v.cursor
}

// SetCursor moves the cursor, clamped to the list
func (v *ListView) SetCursor(pos int) {
	v.cursor = pos
	v.clampCursor()
}

// MoveCursor moves the cursor by delta rows
func (v *ListView) MoveCursor(delta int) {
	v.SetCursor(v.cursor + delta)
}

// CursorItem returns the item under the cursor
func (v *ListView) CursorItem() *model.Item {
	rows := v.list.Rows()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return nil
	}
	return rows[v.cursor].Item
}

// Text returns the bound text of line pos, binding it if needed
func (v *ListView) Text(pos int) string {
	if pos < 0 || pos >= len(v.lines) {
		return ""
	}
	v.bind(pos)
	return v.lines[pos].text
}

func (v *ListView) clampCursor() {
	v.cursor = min(v.cursor, len(v.lines)-1)
	v.cursor = max(v.cursor, 0)
}

// bind refreshes line pos from the list. A selection-only change just
// flips the selected flag.
func (v *ListView) bind(pos int) {
	if v.lines[pos].bound {
		return
	}
	rows := v.list.Rows()
	v.list.Bind(pos, func(item *model.Item, pos int, payloads []any) {
		l := &v.lines[pos]
		if l.item == item && selectionOnly(payloads) {
			l.selected = item.Selected
			l.bound = true
			l.binds++
			return
		}
		row := rows[pos]
		*l = line{
			bound:    true,
			item:     item,
			section:  row.Section,
			text:     item.Text,
			depth:    row.Depth,
			group:    item.GroupHead || item.HasChildren(),
			expanded: item.Expanded,
			selected: item.Selected,
			loading:  item.Loading(),
			binds:    l.binds + 1,
		}
	})
}

func selectionOnly(payloads []any) bool {
	if len(payloads) == 0 {
		return false
	}
	for _, p := range payloads {
		if p != selection.ChangePayload {
			return false
		}
	}
	return true
}

// sync rebuilds the cache if it no longer matches the displayed rows
func (v *ListView) sync() {
	if len(v.lines) == v.list.Len() {
		return
	}
	v.logger.Warn("line cache out of step, redrawing", "lines", len(v.lines), "rows", v.list.Len())
	v.InvalidateAll()
}

// Render draws the rows between startY and startY+height
func (v *ListView) Render(screen *Screen, startY, height int) {
	v.sync()
	width := screen.GetWidth()
	height = max(height, 1)

	if v.cursor < v.offset {
		v.offset = v.cursor
	} else if v.cursor >= v.offset+height {
		v.offset = v.cursor - height + 1
	}
	v.offset = max(min(v.offset, len(v.lines)-height), 0)

	y := startY
	for i := v.offset; i < len(v.lines) && y < startY+height; i++ {
		v.bind(i)
		v.drawLine(screen, i, y, width)
		y++
	}
	for ; y < startY+height; y++ {
		screen.FillLine(0, y, tcell.StyleDefault)
	}
}

func (v *ListView) drawLine(screen *Screen, idx, y, width int) {
	l := v.lines[idx]
	style := screen.RowStyle()
	switch {
	case l.section == model.Header:
		style = screen.HeaderStyle()
	case l.section == model.Footer:
		style = screen.FooterStyle()
	case l.section == model.Sentinel:
		style = screen.SentinelStyle()
	case l.item != nil && l.item.Decoration:
		style = screen.DecorationStyle()
	case l.selected:
		style = screen.RowSelectedStyle()
	}
	arrowStyle := screen.GroupArrowStyle()
	if idx == v.cursor {
		style = screen.CursorStyle(style)
		arrowStyle = screen.CursorStyle(arrowStyle)
	}

	x := screen.DrawString(0, y, strings.Repeat("  ", l.depth), style)
	switch {
	case l.group && l.expanded:
		x = screen.DrawString(x, y, "▼ ", arrowStyle)
	case l.group:
		x = screen.DrawString(x, y, "▶ ", arrowStyle)
	default:
		x = screen.DrawString(x, y, "  ", style)
	}
	mark := "  "
	if l.selected {
		mark = "✓ "
	}
	x = screen.DrawString(x, y, mark, style)

	badge := ""
	if l.loading {
		badge = " …"
	}
	x = screen.DrawStringLimited(x, y, l.text, width-x-StringWidth(badge), style)
	if badge != "" {
		x = screen.DrawString(x, y, badge, screen.LoadingBadgeStyle())
	}
	screen.FillLine(x, y, style)
}

// StatusLine builds the text of the status line
func (v *ListView) StatusLine() (mode, message, clock string) {
	mode = strings.ToUpper(v.list.Selection().Mode().String())

	var parts []string
	if s := v.list.Status(); s != adapter.StatusNone {
		parts = append(parts, s.Label())
	}
	if q := v.list.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("/%s", q))
	}
	if agg := v.list.Selection().Aggregate(); len(agg.Items) > 0 {
		if agg.All {
			parts = append(parts, fmt.Sprintf("all %d selected", len(agg.Items)))
		} else {
			parts = append(parts, fmt.Sprintf("%d selected", len(agg.Items)))
		}
	}
	if v.list.LoadMoreEnabled() {
		parts = append(parts, v.list.LoadMoreState().Label())
	}
	parts = append(parts, fmt.Sprintf("%d rows", v.list.Len()))
	message = strings.Join(parts, " | ")

	if v.ClockFormat != "" {
		clock = strftime.Format(v.ClockFormat, v.Now())
	}
	return mode, message, clock
}

// RenderStatus draws the status line at y, followed by an optional
// application message
func (v *ListView) RenderStatus(screen *Screen, y int, extra string) {
	width := screen.GetWidth()
	mode, message, clock := v.StatusLine()
	if extra != "" {
		message += " | " + extra
	}

	x := screen.DrawString(0, y, " "+mode+" ", screen.StatusModeStyle())
	x++
	clockWidth := StringWidth(clock)
	x = screen.DrawStringLimited(x, y, message, width-x-clockWidth-1, screen.StatusMessageStyle())
	screen.FillLine(x, y, tcell.StyleDefault)
	if clock != "" {
		screen.DrawString(width-clockWidth, y, clock, screen.StatusClockStyle())
	}
}
