// Package adapter exposes a filtered, diffed list to a view: mutations go
// in, incremental edits come out on the dispatch surface.
package adapter

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pstuifzand/listkit/internal/diff"
	"github.com/pstuifzand/listkit/internal/dispatch"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/schedule"
	"github.com/pstuifzand/listkit/internal/selection"
)

// passes with more rows are not dumped at debug level
const dumpLimit = 50

// Options configures a List
type Options struct {
	Logger   *log.Logger
	Executor schedule.Executor // main-thread queue; defaults to schedule.Inline
	Surface  dispatch.Surface

	Mode     schedule.Mode
	Delay    time.Duration // debounce delay
	Interval time.Duration // throttle interval

	BatchStep  int
	BatchDelay time.Duration
	MaxCount   int
	LoadMore   bool

	SkipUnchangedDispatch bool
	SelectionMode         selection.Mode
}

// List owns the source collections and drives the filter, diff and
// dispatch pipeline. All methods must be called from the executor's
// goroutine.
type List struct {
	opts   Options
	logger *log.Logger
	exec   schedule.Executor

	store  *model.Store
	chain  *filter.Chain
	query  *filter.Query
	batch  *filter.Batch
	sched  *schedule.Scheduler
	worker *schedule.Worker
	sink   *dispatch.Sink
	sel    *selection.Coordinator

	status      Status
	statusItems map[Status]*model.Item
	shownStatus bool

	loadMore      bool
	loadMoreState LoadMoreState
	loadMoreItem  *model.Item
	onLoadMore    func()

	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
	recomputes int
}

// New creates an empty list
func New(opts Options) *List {
	if opts.Executor == nil {
		opts.Executor = schedule.Inline{}
	}
	l := &List{
		opts:          opts,
		logger:        logging.OrDiscard(opts.Logger),
		exec:          opts.Executor,
		store:         model.NewStore(),
		query:         &filter.Query{},
		batch:         &filter.Batch{Step: opts.BatchStep, Delay: opts.BatchDelay},
		statusItems:   make(map[Status]*model.Item),
		loadMore:      opts.LoadMore,
		loadMoreItem:  model.NewItem(LoadMoreNormal.Label()),
		loadMoreState: LoadMoreNormal,
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())

	l.chain = filter.NewChain(
		&filter.Status{Source: l},
		filter.GroupCollapse{},
		filter.SubItems{},
		l.query,
		filter.Hidden{},
		filter.DecorationTrim{},
		l.batch,
		&filter.MaxCount{Max: opts.MaxCount},
		&filter.LoadMore{Source: l},
	)
	l.chain.SetLogger(l.logger)

	l.sched = schedule.New(l.recompute, schedule.Options{
		Mode:     opts.Mode,
		Delay:    opts.Delay,
		Interval: opts.Interval,
		Executor: l.exec,
		Logger:   l.logger,
	})
	l.worker = schedule.NewWorker(l.exec, l.logger)
	l.sink = dispatch.New(opts.Surface, l.logger)
	l.sel = selection.New(l, l.logger)
	l.sel.SetMode(opts.SelectionMode)
	l.sink.OnDispatch(l.sel.AfterDispatch)
	return l
}

// SetSurface attaches the view once it exists
func (l *List) SetSurface(surface dispatch.Surface) {
	l.sink.SetSurface(surface)
}

// Selection returns the selection coordinator of the list
func (l *List) Selection() *selection.Coordinator {
	return l.sel
}

// Rows returns the rows currently displayed
func (l *List) Rows() model.Rows {
	return l.sink.Rows()
}

// Len returns the number of displayed rows
func (l *List) Len() int {
	return l.sink.Len()
}

// Items returns the source items of a section
func (l *List) Items(section model.Section) []*model.Item {
	return l.store.Items(section)
}

// Recomputes returns how many chain passes have run
func (l *List) Recomputes() int {
	return l.recomputes
}

// ParentChain returns the displayed ancestors of item, outermost first
func (l *List) ParentChain(item *model.Item) []*model.Item {
	rows := l.sink.Rows()
	return rows.ParentChain(rows.IndexOf(item))
}

// OnDispatch registers a listener called after every dispatch
func (l *List) OnDispatch(fn dispatch.Listener) func() {
	return l.sink.OnDispatch(fn)
}

// OnceDispatch registers a listener for the next dispatch only
func (l *List) OnceDispatch(fn dispatch.Listener) {
	l.sink.OnceDispatch(fn)
}

// Bind renders the row at pos with its pending payloads. Binding the
// load-more sentinel while it accepts requests fires the load-more callback.
func (l *List) Bind(pos int, fn dispatch.BindFunc) bool {
	var bound *model.Item
	ok := l.sink.Bind(pos, func(item *model.Item, pos int, payloads []any) {
		bound = item
		fn(item, pos, payloads)
	})
	if ok && bound == l.loadMoreItem && l.loadMoreState.triggers() && l.onLoadMore != nil {
		l.SetLoadMoreState(LoadMoreLoading)
		l.onLoadMore()
	}
	return ok
}

// SetQuery filters body rows by a query expression. An empty query shows
// everything; an invalid one is rejected and the previous query stays.
func (l *List) SetQuery(text string, opts ...filter.Option) error {
	if err := l.query.SetQuery(text); err != nil {
		l.logger.Debug("query rejected", "text", text, "err", err)
		return err
	}
	l.logger.Debug("query", "expr", l.query.String())
	l.schedule(opts...)
	return nil
}

// Query returns the current query text
func (l *List) Query() string {
	return l.query.Text()
}

// Refresh schedules a pass without changing anything
func (l *List) Refresh(opts ...filter.Option) {
	l.schedule(opts...)
}

// Close stops scheduling and drops in-flight work
func (l *List) Close() {
	l.closed = true
	l.sched.Close()
	l.worker.Cancel()
	l.cancel()
}

func (l *List) schedule(opts ...filter.Option) {
	if l.closed {
		return
	}
	l.sched.Schedule(filter.NewParams(opts...))
}

// recompute runs one chain pass and hands the diff to the worker
func (l *List) recompute(p *filter.Params) {
	if l.closed {
		return
	}
	l.recomputes++
	statusPass := l.status != StatusNone
	rows := l.chain.Run(l.store.Rows(), p, l)
	l.logger.Debug("recompute", "rows", len(rows), "sync", p.Synchronous, "immediate", p.Immediate)
	if l.logger.GetLevel() <= log.DebugLevel && len(rows) <= dumpLimit {
		l.logger.Debug("filtered rows", "rows", filter.DumpRows(rows))
	}

	if p.FilterOnly {
		l.worker.Cancel()
		l.sink.Replace(rows)
		return
	}

	old := l.sink.Rows()
	task := func(ctx context.Context) func() {
		script := diff.Rows(old, rows, p.Payload)
		if ctx.Err() != nil {
			return nil
		}
		return func() { l.dispatch(p, old, rows, script, statusPass) }
	}
	if p.Immediate {
		l.worker.Run(task)
	} else {
		l.worker.Submit(task)
	}
}

func (l *List) dispatch(p *filter.Params, old, rows model.Rows, script *diff.Script, statusPass bool) {
	if l.closed {
		return
	}
	u, inPlace := plan(p, old, rows, script, l.opts.SkipUnchangedDispatch)
	if inPlace {
		l.logger.Debug("in-place dispatch", "changes", len(u.Changes), "ops", len(script.Ops))
	}
	// entering or leaving a status redraws everything
	l.sink.SetStatusMode(statusPass || l.shownStatus)
	l.sink.Apply(u)
	l.shownStatus = statusPass
	l.sink.SetStatusMode(statusPass)
	if l.batch.Commit(p) {
		l.revealNext()
	}
}

// revealNext asks for the pass that shows the next batch step
func (l *List) revealNext() {
	if l.closed {
		return
	}
	l.sched.After(l.batch.Delay, filter.NewParams())
}

// RequestChildren implements filter.Hooks. The loader runs on its own
// goroutine; its result is stored on the executor and triggers a pass
// scoped to the item.
func (l *List) RequestChildren(item *model.Item) {
	loader, ok := item.Data.(model.ChildLoader)
	if !ok {
		l.logger.Warn("no child loader", "item", item.Text)
		return
	}
	item.MarkLoading()
	ctx := l.ctx
	go func() {
		children, err := loader.LoadChildren(ctx, item)
		l.exec.Post(func() {
			if l.closed {
				return
			}
			if err != nil {
				l.logger.Error("failed to load children", "item", item.Text, "err", err)
				item.FailLoading()
			} else {
				item.SetChildren(children)
			}
			l.schedule(filter.Source(item))
		})
	}()
}

// StatusItem implements filter.StatusSource
func (l *List) StatusItem() *model.Item {
	if l.status == StatusNone {
		return nil
	}
	item, ok := l.statusItems[l.status]
	if !ok {
		item = model.NewItem(l.status.Label())
		l.statusItems[l.status] = item
	}
	return item
}

// StatusActive implements filter.LoadMoreSource
func (l *List) StatusActive() bool {
	return l.status != StatusNone
}

// LoadMoreItem implements filter.LoadMoreSource
func (l *List) LoadMoreItem() *model.Item {
	if !l.loadMore {
		return nil
	}
	return l.loadMoreItem
}

// DisplayedRows implements selection.Host
func (l *List) DisplayedRows() model.Rows {
	return l.sink.Rows()
}

// Walk implements selection.Host
func (l *List) Walk(fn func(item *model.Item) bool) {
	l.store.Walk(fn)
}

// NotifyItemChanged implements selection.Host
func (l *List) NotifyItemChanged(item *model.Item, payload any) {
	l.Notify(item, payload)
}
