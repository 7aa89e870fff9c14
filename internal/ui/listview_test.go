package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/schedule"
	"github.com/pstuifzand/listkit/internal/selection"
	"github.com/pstuifzand/listkit/internal/theme"
)

func newSimScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFromTcell(sim, theme.Default())
	require.NoError(t, err)
	sim.SetSize(w, h)
	screen.Size()
	t.Cleanup(func() { screen.Close() })
	return screen, sim
}

func rowText(sim tcell.SimulationScreen, y int) string {
	w, _ := sim.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, width := sim.GetContent(x, y)
		if width == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func viewTexts(v *ListView) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.Text(i)
	}
	return out
}

func rowTexts(l *adapter.List) []string {
	var out []string
	for _, r := range l.Rows() {
		out = append(out, r.Item.Text)
	}
	return out
}

func TestListViewFollowsEdits(t *testing.T) {
	l := adapter.New(adapter.Options{})
	v := NewListView(l, nil)

	a, b, c := model.NewItem("a"), model.NewItem("b"), model.NewItem("c")
	l.Add(model.Body, []*model.Item{a, b, c}, filter.Now())
	assert.Equal(t, []string{"a", "b", "c"}, viewTexts(v))

	l.Remove(b, filter.Now())
	assert.Equal(t, []string{"a", "c"}, viewTexts(v))

	l.Move(model.Body, 1, 0, filter.Now())
	assert.Equal(t, []string{"c", "a"}, viewTexts(v))

	a.SetText("A")
	l.Notify(a, nil, filter.Now())
	assert.Equal(t, rowTexts(l), viewTexts(v))
	assert.Equal(t, 0, v.Invalidations())
	assert.Positive(t, v.Edits())
}

func TestListViewCursorTracksItem(t *testing.T) {
	l := adapter.New(adapter.Options{})
	v := NewListView(l, nil)
	x := model.NewItem("x")
	l.Add(model.Body, []*model.Item{model.NewItem("a"), x}, filter.Now())
	v.SetCursor(1)

	l.Insert(model.Body, 0, []*model.Item{model.NewItem("new")}, filter.Now())
	assert.Equal(t, 2, v.Cursor())
	assert.Same(t, x, v.CursorItem())

	l.RemoveAt(model.Body, 0, filter.Now())
	assert.Equal(t, 1, v.Cursor())
	assert.Same(t, x, v.CursorItem())

	l.Remove(x, filter.Now())
	assert.Equal(t, 0, v.Cursor())
	v.MoveCursor(5)
	assert.Equal(t, 0, v.Cursor())
}

func TestListViewStatusInvalidates(t *testing.T) {
	l := adapter.New(adapter.Options{})
	v := NewListView(l, nil)
	l.Add(model.Body, []*model.Item{model.NewItem("a"), model.NewItem("b")}, filter.Now())

	l.SetStatus(adapter.StatusLoading, filter.Now())
	assert.Equal(t, 1, v.Invalidations())
	assert.Equal(t, []string{"Loading..."}, viewTexts(v))
}

func TestListViewSelectionRebindsFlagOnly(t *testing.T) {
	loop := schedule.NewLoop()
	l := adapter.New(adapter.Options{
		Executor:              loop,
		Delay:                 time.Millisecond,
		SelectionMode:         selection.Multi,
		SkipUnchangedDispatch: true,
	})
	v := NewListView(l, nil)
	b := model.NewItem("b")
	l.Add(model.Body, []*model.Item{model.NewItem("a"), b}, filter.Now())
	viewTexts(v)
	require.Equal(t, 1, v.lines[1].binds)

	require.True(t, l.Selection().Select(b))
	require.Eventually(t, func() bool {
		loop.Drain()
		return !v.lines[1].bound
	}, time.Second, time.Millisecond)

	v.Text(1)
	assert.True(t, v.lines[1].selected)
	assert.Equal(t, 2, v.lines[1].binds)
	assert.True(t, v.lines[0].bound, "other rows stay bound")
}

func TestListViewRender(t *testing.T) {
	screen, sim := newSimScreen(t, 30, 6)
	l := adapter.New(adapter.Options{SelectionMode: selection.Multi})
	v := NewListView(l, nil)
	v.Now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC) }

	g := model.NewGroup("Fruit", true)
	g.AddChild(model.NewItem("apple"))
	l.Add(model.Body, []*model.Item{g, model.NewItem("a very long line that will not fit")}, filter.Now())

	v.Render(screen, 0, 5)
	v.RenderStatus(screen, 5, "")
	screen.Show()

	assert.Equal(t, "▼   Fruit", rowText(sim, 0))
	assert.Equal(t, "      apple", rowText(sim, 1))
	assert.Equal(t, "    a very long line that w...", rowText(sim, 2))
	assert.Equal(t, "", rowText(sim, 3))
	status := rowText(sim, 5)
	assert.True(t, strings.HasPrefix(status, " MULTI "), status)
	assert.True(t, strings.HasSuffix(status, "09:30:15"), status)
}

func TestListViewLoadMoreOnRender(t *testing.T) {
	screen, _ := newSimScreen(t, 30, 6)
	l := adapter.New(adapter.Options{Executor: schedule.NewLoop(), LoadMore: true})
	defer l.Close()
	v := NewListView(l, nil)
	requested := 0
	l.OnLoadMore(func() { requested++ })
	l.Add(model.Body, []*model.Item{model.NewItem("a")}, filter.Now())

	v.Render(screen, 0, 5)
	assert.Equal(t, 1, requested)
	assert.Equal(t, adapter.LoadMoreLoading, l.LoadMoreState())

	mode, message, _ := v.StatusLine()
	assert.Equal(t, "NORMAL", mode)
	assert.Contains(t, message, "Loading more...")
}

func TestListViewRecoversFromDrift(t *testing.T) {
	screen, _ := newSimScreen(t, 20, 4)
	l := adapter.New(adapter.Options{})
	v := NewListView(l, nil)
	l.Add(model.Body, []*model.Item{model.NewItem("a"), model.NewItem("b")}, filter.Now())

	v.lines = v.lines[:1]
	v.Render(screen, 0, 3)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 1, v.Invalidations())
}
