package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listkit/internal/diff"
	"github.com/pstuifzand/listkit/internal/dispatch"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/schedule"
	"github.com/pstuifzand/listkit/internal/selection"
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

func texts(rows model.Rows) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Item.Text
	}
	return out
}

func items(names ...string) []*model.Item {
	out := make([]*model.Item, len(names))
	for i, n := range names {
		out[i] = model.NewItem(n)
	}
	return out
}

// drain runs queued main-thread work until cond holds
func drain(t *testing.T, loop *schedule.Loop, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		loop.Drain()
		return cond()
	}, time.Second, time.Millisecond)
}

func TestGroupExpandScenario(t *testing.T) {
	surface := &recordingSurface{}
	l := New(Options{Surface: surface})

	a := model.NewGroup("A", true)
	d := model.NewGroup("D", false)
	body := []*model.Item{a, model.NewItem("B"), model.NewItem("C"), d, model.NewItem("E"), model.NewItem("F")}
	l.Add(model.Body, body, filter.Now())
	require.Equal(t, []string{"A", "B", "C", "D"}, texts(l.Rows()))

	surface.calls = nil
	d.SetExpanded(true)
	l.Notify(d, nil, filter.Now())

	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, texts(l.Rows()))
	// the head itself is redrawn for its expand marker
	assert.Equal(t, []string{"insert 4 2", "change 3 1 <nil>"}, surface.calls)
	assert.Equal(t, []*model.Item{d}, l.ParentChain(body[5]))

	surface.calls = nil
	d.SetExpanded(false)
	l.Notify(d, nil, filter.Now())
	assert.Equal(t, []string{"A", "B", "C", "D"}, texts(l.Rows()))
	assert.Equal(t, []string{"remove 4 2", "change 3 1 <nil>"}, surface.calls)
}

func TestRapidMutationsRecomputeOnce(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop, Delay: 20 * time.Millisecond})

	var sizes []int
	a, b := model.NewItem("a"), model.NewItem("b")
	l.Add(model.Body, []*model.Item{a}, filter.Payload("first"))
	l.Add(model.Body, []*model.Item{b}, filter.Payload("second"))

	l.OnceDispatch(func(rows model.Rows) { sizes = append(sizes, len(rows)) })
	drain(t, loop, func() bool { return l.Len() == 2 })

	time.Sleep(50 * time.Millisecond)
	loop.Drain()
	assert.Equal(t, 1, l.Recomputes())
	assert.Equal(t, []int{2}, sizes)
}

func TestStatusReplacesContentAndInvalidates(t *testing.T) {
	loop := schedule.NewLoop()
	surface := &recordingSurface{}
	l := New(Options{Executor: loop, Surface: surface, LoadMore: true})
	l.Add(model.Body, items("a", "b"), filter.Now())
	require.Equal(t, []string{"a", "b", "Load more"}, texts(l.Rows()))

	surface.calls = nil
	l.SetStatus(StatusLoading, filter.Now())
	assert.Equal(t, StatusLoading, l.Status())
	assert.Equal(t, []string{"Loading..."}, texts(l.Rows()), "no load-more sentinel while a status is shown")
	assert.Empty(t, surface.calls)
	assert.Equal(t, 1, surface.invalidated)

	custom := model.NewItem("Custom error")
	l.SetStatusItem(StatusError, custom)
	l.SetStatus(StatusError, filter.Now())
	assert.Equal(t, []string{"Custom error"}, texts(l.Rows()))

	// leaving the status ignores the caller's options and recomputes asynchronously
	l.SetStatus(StatusNone, filter.Now())
	assert.Equal(t, []string{"Custom error"}, texts(l.Rows()))
	drain(t, loop, func() bool { return l.Len() == 3 })
	assert.Empty(t, surface.calls, "leaving a status redraws instead of editing")
	assert.Equal(t, 3, surface.invalidated)

	l.Add(model.Body, items("c"), filter.Now())
	assert.Equal(t, []string{"insert 2 1"}, surface.calls)
}

func TestLoadMoreFiresOnBind(t *testing.T) {
	// state changes from Bind schedule debounced passes; keep them queued
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop, LoadMore: true})
	l.Add(model.Body, items("a"), filter.Now())

	calls := 0
	l.OnLoadMore(func() { calls++ })

	last := l.Len() - 1
	require.Same(t, l.LoadMoreSentinel(), l.Rows()[last].Item)
	require.True(t, l.Bind(last, func(*model.Item, int, []any) {}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, LoadMoreLoading, l.LoadMoreState())

	// binding again while loading does not ask twice
	l.Bind(last, func(*model.Item, int, []any) {})
	assert.Equal(t, 1, calls)

	l.SetLoadMoreState(LoadMoreRetry, filter.Now())
	assert.Equal(t, "Tap to retry", l.Rows()[last].Item.Text)
	l.Bind(last, func(*model.Item, int, []any) {})
	assert.Equal(t, 2, calls)

	l.SetLoadMoreState(LoadMoreNoMore, filter.Now())
	l.Bind(last, func(*model.Item, int, []any) {})
	assert.Equal(t, 2, calls)

	l.EnableLoadMore(false, filter.Now())
	assert.False(t, l.LoadMoreEnabled())
	assert.Equal(t, []string{"a"}, texts(l.Rows()))
}

type loader struct {
	children []*model.Item
	err      error
}

func (ld *loader) LoadChildren(ctx context.Context, item *model.Item) ([]*model.Item, error) {
	return ld.children, ld.err
}

func TestLazyChildrenLoadAndRefilter(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop})

	parent := model.NewItem("parent")
	parent.Expanded = true
	parent.Data = &loader{children: items("x", "y")}
	l.Add(model.Body, []*model.Item{parent}, filter.Now())

	assert.True(t, parent.Loading())
	assert.True(t, l.Rows()[0].State.Loading)

	drain(t, loop, func() bool { return l.Len() == 3 })
	assert.Equal(t, []string{"parent", "x", "y"}, texts(l.Rows()))
	assert.False(t, parent.Loading())
	assert.Equal(t, []*model.Item{parent}, l.ParentChain(l.Rows()[2].Item))
}

func TestLazyChildrenFailure(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop})

	parent := model.NewItem("parent")
	parent.Expanded = true
	parent.Data = &loader{err: errors.New("offline")}
	l.Add(model.Body, []*model.Item{parent}, filter.Now())

	drain(t, loop, func() bool { return !parent.Loading() })
	drain(t, loop, func() bool { return !l.Rows()[0].State.Loading })
	assert.Equal(t, 1, l.Len())
	assert.True(t, parent.Loaded(), "a failed load is not retried on every pass")
}

func TestSelectionSendsTargetedChange(t *testing.T) {
	loop := schedule.NewLoop()
	surface := &recordingSurface{}
	l := New(Options{
		Executor:              loop,
		Surface:               surface,
		SkipUnchangedDispatch: true,
		SelectionMode:         selection.Multi,
	})
	body := items("a", "b", "c")
	l.Add(model.Body, body, filter.Now())

	var agg selection.Aggregate
	l.Selection().OnChange(func(a selection.Aggregate) { agg = a })

	surface.calls = nil
	require.True(t, l.Selection().Select(body[1]))
	assert.Equal(t, []int{1}, agg.Indexes)

	drain(t, loop, func() bool { return len(surface.calls) > 0 })
	assert.Equal(t, []string{"change 1 1 selection"}, surface.calls)

	var payloads []any
	l.Bind(1, func(item *model.Item, pos int, p []any) { payloads = p })
	assert.Equal(t, []any{selection.ChangePayload}, payloads)
}

type follower struct{ leader *model.Item }

func (f follower) DependsOn(self, source *model.Item) bool { return source == f.leader }

func TestDependentsReceiveChanges(t *testing.T) {
	surface := &recordingSurface{}
	l := New(Options{Surface: surface, SkipUnchangedDispatch: true})
	leader := model.NewItem("leader")
	dep := model.NewItem("dep")
	dep.Data = follower{leader: leader}
	l.Add(model.Body, []*model.Item{leader, model.NewItem("other"), dep}, filter.Now())

	surface.calls = nil
	leader.SetText("leader!")
	l.Notify(leader, "p", filter.Now())
	assert.Equal(t, []string{"change 0 1 p", "change 2 1 p"}, surface.calls)
}

// byText compares rows by the text captured when they were built
type byText struct{ version int }

func (byText) SameContent(old, new model.Row) bool { return old.State.Text == new.State.Text }

func TestDiffWorkerReadsRowSnapshots(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop, Delay: time.Millisecond})
	defer l.Close()
	body := items("a", "b", "c", "d")
	for _, it := range body {
		it.Data = byText{}
	}
	l.Add(model.Body, body, filter.Now())

	for round := 1; round <= 20; round++ {
		before := l.Recomputes()
		l.Refresh()
		drain(t, loop, func() bool { return l.Recomputes() > before })
		// the worker may still be diffing the pass that just ran
		for _, it := range body {
			it.Data = byText{version: round}
		}
	}
	drain(t, loop, func() bool { return !l.worker.Busy() })
	loop.Drain()
	assert.Equal(t, []string{"a", "b", "c", "d"}, texts(l.Rows()))
}

func TestMutationsUpdateRows(t *testing.T) {
	l := New(Options{})
	body := items("a", "b", "c")
	l.Add(model.Body, body, filter.Now())
	l.Add(model.Header, items("h"), filter.Now())
	l.Add(model.Footer, items("f"), filter.Now())
	assert.Equal(t, []string{"h", "a", "b", "c", "f"}, texts(l.Rows()))

	l.Insert(model.Body, 1, items("x"), filter.Now())
	l.Move(model.Body, 0, 3, filter.Now())
	assert.Equal(t, []string{"h", "x", "b", "c", "a", "f"}, texts(l.Rows()))

	l.Replace(model.Body, 0, model.NewItem("y"), filter.Now())
	l.Remove(body[1], filter.Now())
	l.RemoveAt(model.Body, 0, filter.Now())
	assert.Equal(t, []string{"h", "c", "a", "f"}, texts(l.Rows()))

	l.Reset(model.Body, items("z"), filter.Now())
	assert.Equal(t, []string{"h", "z", "f"}, texts(l.Rows()))
}

func TestInvalidMutationIsNoOp(t *testing.T) {
	l := New(Options{})
	l.Add(model.Body, items("a"), filter.Now())
	before := l.Recomputes()

	l.RemoveAt(model.Body, 5, filter.Now())
	l.Remove(model.NewItem("stranger"), filter.Now())
	l.Move(model.Body, 0, 9, filter.Now())
	assert.Equal(t, before, l.Recomputes())
}

func TestFindByTag(t *testing.T) {
	l := New(Options{})
	a := model.NewItem("a")
	a.Tag = model.NewTag()
	child := model.NewItem("child")
	child.Tag = "child"
	a.AddChild(child)
	l.Add(model.Body, []*model.Item{a}, filter.Now())

	assert.Same(t, a, l.FindByTag(a.Tag))
	assert.Same(t, child, l.FindByTag("child"))
	assert.Nil(t, l.FindByTag("missing"))
}

func TestFilterOnlySkipsSurface(t *testing.T) {
	surface := &recordingSurface{}
	l := New(Options{Surface: surface})
	notified := 0
	l.OnDispatch(func(model.Rows) { notified++ })

	l.Add(model.Body, items("a", "b"), filter.Now(), filter.FilterOnly())
	assert.Equal(t, 2, l.Len())
	assert.Empty(t, surface.calls)
	assert.Equal(t, 0, notified)
}

func TestQueryFiltersBody(t *testing.T) {
	l := New(Options{})
	l.Add(model.Body, items("apple", "banana", "cherry"), filter.Now())
	require.NoError(t, l.SetQuery("an", filter.Now()))
	assert.Equal(t, []string{"banana"}, texts(l.Rows()))
	assert.Equal(t, "an", l.Query())

	assert.Error(t, l.SetQuery("(unclosed", filter.Now()))
	assert.Equal(t, "an", l.Query())

	require.NoError(t, l.SetQuery("", filter.Now()))
	assert.Equal(t, 3, l.Len())
}

func TestBatchRevealsInSteps(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop, BatchStep: 2, BatchDelay: time.Millisecond})
	l.Add(model.Body, items("1", "2", "3", "4", "5"), filter.Now())
	assert.Equal(t, 2, l.Len())

	drain(t, loop, func() bool { return l.Len() == 5 })
}

func TestBatchStepsOnlyAdvanceWhenShown(t *testing.T) {
	l := New(Options{BatchStep: 2, BatchDelay: time.Hour})
	defer l.Close()
	l.Add(model.Body, items("1", "2", "3", "4", "5"), filter.Now(), filter.FilterOnly())
	l.Refresh(filter.Now(), filter.FilterOnly())
	assert.Equal(t, 2, l.Len())

	l.Refresh(filter.Now())
	assert.Equal(t, 2, l.Len(), "filter-only passes do not use up steps")

	l.Refresh(filter.Now())
	assert.Equal(t, 4, l.Len())
}

func TestMaxCount(t *testing.T) {
	l := New(Options{MaxCount: 2, LoadMore: true})
	l.Add(model.Body, items("a", "b", "c"), filter.Now())
	assert.Equal(t, []string{"a", "b", "Load more"}, texts(l.Rows()))
}

func TestIdempotentRefresh(t *testing.T) {
	surface := &recordingSurface{}
	l := New(Options{Surface: surface})
	l.Add(model.Body, items("a", "b"), filter.Now())
	surface.calls = nil

	l.Refresh(filter.Now())
	assert.Empty(t, surface.calls)
}

func TestCloseStopsWork(t *testing.T) {
	loop := schedule.NewLoop()
	l := New(Options{Executor: loop})
	l.Add(model.Body, items("a"))
	l.Close()
	time.Sleep(10 * time.Millisecond)
	loop.Drain()
	assert.Equal(t, 0, l.Len())
}

func TestPlan(t *testing.T) {
	source := model.NewItem("source")
	other := model.NewItem("other")
	rows := model.Rows{model.NewRow(source, model.Body), model.NewRow(other, model.Body)}
	empty := &diff.Script{}

	t.Run("no source dispatches the script", func(t *testing.T) {
		u, inPlace := plan(filter.NewParams(), rows, rows, empty, true)
		assert.False(t, inPlace)
		assert.Same(t, empty, u.Script)
		assert.Empty(t, u.Changes)
	})

	t.Run("unchanged shape notifies the source in place", func(t *testing.T) {
		u, inPlace := plan(filter.NewParams(filter.Source(source), filter.Payload("p")), rows, rows, empty, true)
		assert.True(t, inPlace)
		assert.Equal(t, []dispatch.Change{{Pos: 0, Payload: "p"}}, u.Changes)
	})

	t.Run("in place keeps content changes of other rows", func(t *testing.T) {
		changed := &diff.Script{OldLen: 2, NewLen: 2, Ops: []diff.Op{{Kind: diff.OpChange, Pos: 1, Count: 1}}}
		u, inPlace := plan(filter.NewParams(filter.Source(source)), rows, rows, changed, true)
		assert.True(t, inPlace)
		assert.Same(t, changed, u.Script)
		assert.Equal(t, []dispatch.Change{{Pos: 0}}, u.Changes)
	})

	t.Run("source already changed by the script", func(t *testing.T) {
		changed := &diff.Script{OldLen: 2, NewLen: 2, Ops: []diff.Op{{Kind: diff.OpChange, Pos: 0, Count: 1}}}
		u, inPlace := plan(filter.NewParams(filter.Source(source)), rows, rows, changed, true)
		assert.True(t, inPlace)
		assert.Empty(t, u.Changes)
	})

	t.Run("policy disabled", func(t *testing.T) {
		_, inPlace := plan(filter.NewParams(filter.Source(source)), rows, rows, empty, false)
		assert.False(t, inPlace)
	})

	t.Run("forced dispatch wins", func(t *testing.T) {
		p := filter.NewParams(filter.Source(source), filter.StillDispatch())
		_, inPlace := plan(p, rows, rows, empty, true)
		assert.False(t, inPlace)
	})

	t.Run("length change dispatches fully", func(t *testing.T) {
		_, inPlace := plan(filter.NewParams(filter.Source(source)), rows[:1], rows, empty, true)
		assert.False(t, inPlace)
	})

	t.Run("dependents dispatch fully", func(t *testing.T) {
		other.Data = follower{leader: source}
		defer func() { other.Data = nil }()
		u, inPlace := plan(filter.NewParams(filter.Source(source)), rows, rows, empty, true)
		assert.False(t, inPlace)
		require.Len(t, u.Changes, 1)
		assert.Equal(t, 1, u.Changes[0].Pos)
	})
}

type hider struct{}

func (hider) Hides(self, candidate *model.Item) bool { return candidate.Text == "secret" }

func TestRelationalHideForcesFullDispatch(t *testing.T) {
	surface := &recordingSurface{}
	l := New(Options{Surface: surface, SkipUnchangedDispatch: true})
	h := model.NewItem("hider")
	secret := model.NewItem("secret")
	l.Add(model.Body, []*model.Item{secret, model.NewItem("plain")}, filter.Now())
	require.Equal(t, 2, l.Len())

	surface.calls = nil
	h.Data = hider{}
	l.Replace(model.Body, 1, h, filter.Now(), filter.Source(h))
	assert.Equal(t, []string{"hider"}, texts(l.Rows()))
	assert.Contains(t, surface.calls, "remove 0 2")
}
