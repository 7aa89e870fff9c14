package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listkit/internal/diff"
	"github.com/pstuifzand/listkit/internal/model"
)

type recordingSurface struct {
	calls       []string
	invalidated int
}

func (r *recordingSurface) InsertAt(pos, count int) {
	r.calls = append(r.calls, fmt.Sprintf("insert %d %d", pos, count))
}

func (r *recordingSurface) RemoveAt(pos, count int) {
	r.calls = append(r.calls, fmt.Sprintf("remove %d %d", pos, count))
}

func (r *recordingSurface) MoveItem(from, to int) {
	r.calls = append(r.calls, fmt.Sprintf("move %d %d", from, to))
}

func (r *recordingSurface) ChangeAt(pos, count int, payload any) {
	r.calls = append(r.calls, fmt.Sprintf("change %d %d %v", pos, count, payload))
}

func (r *recordingSurface) InvalidateAll() {
	r.invalidated++
}

func rowsOf(items ...*model.Item) model.Rows {
	rows := make(model.Rows, len(items))
	for i, it := range items {
		rows[i] = model.NewRow(it, model.Body)
	}
	return rows
}

func update(old, new model.Rows, payload any) Update {
	return Update{Script: diff.Rows(old, new, payload), Rows: new}
}

func TestApplyForwardsScript(t *testing.T) {
	a, b, c, d := model.NewItem("a"), model.NewItem("b"), model.NewItem("c"), model.NewItem("d")
	surface := &recordingSurface{}
	s := New(surface, nil)

	first := rowsOf(a, b, c)
	s.Apply(update(nil, first, nil))
	require.Equal(t, []string{"insert 0 3"}, surface.calls)

	surface.calls = nil
	second := rowsOf(c, a, d)
	s.Apply(update(first, second, nil))
	assert.Equal(t, []string{"remove 1 1", "move 0 1", "insert 2 1"}, surface.calls)
	assert.Equal(t, second.Items(), s.Rows().Items())
	assert.Equal(t, 2, s.Dispatches())
}

func TestListenersFireOncePerApply(t *testing.T) {
	a, b := model.NewItem("a"), model.NewItem("b")
	s := New(&recordingSurface{}, nil)

	persistent := 0
	once := 0
	remove := s.OnDispatch(func(rows model.Rows) {
		persistent++
		assert.Len(t, rows, 2, "listeners see the fully applied list")
	})
	s.OnceDispatch(func(model.Rows) { once++ })

	rows := rowsOf(a, b)
	s.Apply(update(nil, rows, nil))
	s.Apply(Update{Rows: rows})

	assert.Equal(t, 2, persistent)
	assert.Equal(t, 1, once, "one-shot listeners are cleared after the first dispatch")

	remove()
	s.Apply(Update{Rows: rows})
	assert.Equal(t, 2, persistent)
}

func TestStatusModeInvalidatesInsteadOfEditing(t *testing.T) {
	a := model.NewItem("a")
	surface := &recordingSurface{}
	s := New(surface, nil)
	s.SetStatusMode(true)
	assert.True(t, s.StatusMode())

	notified := 0
	s.OnDispatch(func(model.Rows) { notified++ })
	s.Apply(update(nil, rowsOf(a), nil))

	assert.Empty(t, surface.calls)
	assert.Equal(t, 1, surface.invalidated)
	assert.Equal(t, 1, notified)
	assert.Equal(t, 1, s.Len())
}

func TestPayloadsAccumulateUntilBind(t *testing.T) {
	a, b := model.NewItem("a"), model.NewItem("b")
	s := New(&recordingSurface{}, nil)
	rows := rowsOf(a, b)
	s.Apply(update(nil, rows, nil))

	b.SetText("b1")
	next := rowsOf(a, b)
	s.Apply(update(rows, next, "text"))
	s.Apply(Update{Rows: next, Changes: []Change{{Pos: 1, Payload: "selection"}}})

	assert.Equal(t, []any{"text", "selection"}, s.Pending(1))

	var got []any
	ok := s.Bind(1, func(item *model.Item, pos int, payloads []any) {
		assert.Same(t, b, item)
		assert.Equal(t, 1, pos)
		got = payloads
	})
	require.True(t, ok)
	assert.Equal(t, []any{"text", "selection"}, got)
	assert.Empty(t, s.Pending(1), "binding clears payloads")

	assert.False(t, s.Bind(5, func(*model.Item, int, []any) {}))
}

func TestPayloadsDroppedWithRow(t *testing.T) {
	a, b := model.NewItem("a"), model.NewItem("b")
	s := New(&recordingSurface{}, nil)
	rows := rowsOf(a, b)
	s.Apply(update(nil, rows, nil))
	s.Apply(Update{Rows: rows, Changes: []Change{{Pos: 0, Payload: "x"}}})

	s.Replace(rowsOf(b))
	assert.Empty(t, s.payloads)
}

func TestChangeOutsideRowsIsIgnored(t *testing.T) {
	surface := &recordingSurface{}
	s := New(surface, nil)
	s.Apply(Update{Rows: rowsOf(model.NewItem("a")), Changes: []Change{{Pos: 3, Payload: "x"}}})
	assert.Empty(t, surface.calls)
}

func TestReplaceIsSilent(t *testing.T) {
	surface := &recordingSurface{}
	s := New(surface, nil)
	notified := 0
	s.OnDispatch(func(model.Rows) { notified++ })

	s.Replace(rowsOf(model.NewItem("a")))
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, surface.calls)
	assert.Equal(t, 0, notified)
	assert.Equal(t, 0, s.Dispatches())
}

func TestNilSurface(t *testing.T) {
	s := New(nil, nil)
	s.Apply(update(nil, rowsOf(model.NewItem("a")), nil))
	assert.Equal(t, 1, s.Len())
}
