// Package dispatch applies edit scripts to a view surface and owns the list
// of rows the view currently shows.
package dispatch

import (
	"github.com/charmbracelet/log"

	"github.com/pstuifzand/listkit/internal/diff"
	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/model"
)

// Surface is the view that receives incremental edits
type Surface interface {
	InsertAt(pos, count int)
	RemoveAt(pos, count int)
	MoveItem(from, to int)
	ChangeAt(pos, count int, payload any)
}

// Invalidator is implemented by surfaces that can redraw everything at once
type Invalidator interface {
	InvalidateAll()
}

// Listener is called after a dispatch with the rows now displayed
type Listener func(rows model.Rows)

// BindFunc renders one row with the payloads accumulated since its last bind
type BindFunc func(item *model.Item, pos int, payloads []any)

// Change is a targeted change notification at a final position
type Change struct {
	Pos     int
	Payload any
}

// Update is the result of one recompute
type Update struct {
	Script  *diff.Script // may be nil when only targeted changes are sent
	Rows    model.Rows
	Changes []Change
}

type listener struct {
	id int
	fn Listener
}

// Sink applies updates. It must only be used from the main thread.
type Sink struct {
	surface  Surface
	logger   *log.Logger
	rows     model.Rows
	payloads map[*model.Item][]any

	listeners []listener
	once      []Listener
	nextID    int

	statusMode bool
	dispatches int
}

// New creates a sink for surface. A nil surface discards edits.
func New(surface Surface, logger *log.Logger) *Sink {
	return &Sink{
		surface:  surface,
		logger:   logging.OrDiscard(logger),
		payloads: make(map[*model.Item][]any),
	}
}

// SetSurface replaces the surface, e.g. once the view exists
func (s *Sink) SetSurface(surface Surface) {
	s.surface = surface
}

// Rows returns the displayed rows. Callers must not modify them.
func (s *Sink) Rows() model.Rows {
	return s.rows
}

// Len returns the number of displayed rows
func (s *Sink) Len() int {
	return len(s.rows)
}

// SetStatusMode switches between incremental edits and full invalidation
func (s *Sink) SetStatusMode(on bool) {
	s.statusMode = on
}

// StatusMode reports whether edits are replaced by full invalidation
func (s *Sink) StatusMode() bool {
	return s.statusMode
}

// Dispatches returns how many updates have been applied
func (s *Sink) Dispatches() int {
	return s.dispatches
}

// OnDispatch registers a persistent listener and returns a function that
// removes it.
func (s *Sink) OnDispatch(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnceDispatch registers a listener for the next dispatch only
func (s *Sink) OnceDispatch(fn Listener) {
	s.once = append(s.once, fn)
}

// Replace swaps the displayed rows without notifying anyone
func (s *Sink) Replace(rows model.Rows) {
	s.rows = rows
	s.prune()
}

// Apply makes u.Rows the displayed list, forwards the edits to the surface
// and notifies listeners once.
func (s *Sink) Apply(u Update) {
	s.rows = u.Rows
	s.dispatches++

	switch {
	case s.statusMode:
		if inv, ok := s.surface.(Invalidator); ok {
			inv.InvalidateAll()
		}
	case s.surface == nil:
	default:
		if u.Script != nil {
			for _, op := range u.Script.Ops {
				s.apply(op)
			}
		}
		for _, c := range u.Changes {
			if c.Pos < 0 || c.Pos >= len(s.rows) {
				s.logger.Warn("change outside displayed rows", "pos", c.Pos, "len", len(s.rows))
				continue
			}
			s.record(c.Pos, 1, c.Payload)
			s.surface.ChangeAt(c.Pos, 1, c.Payload)
		}
	}
	s.prune()

	s.logger.Debug("dispatch", "rows", len(s.rows), "ops", opCount(u.Script), "changes", len(u.Changes))
	s.notify()
}

func (s *Sink) apply(op diff.Op) {
	switch op.Kind {
	case diff.OpRemove:
		s.surface.RemoveAt(op.Pos, op.Count)
	case diff.OpMove:
		s.surface.MoveItem(op.From, op.To)
	case diff.OpInsert:
		s.surface.InsertAt(op.Pos, op.Count)
	case diff.OpChange:
		s.record(op.Pos, op.Count, op.Payload)
		s.surface.ChangeAt(op.Pos, op.Count, op.Payload)
	}
}

func (s *Sink) notify() {
	rows := s.rows
	for _, l := range s.listeners {
		l.fn(rows)
	}
	once := s.once
	s.once = nil
	for _, fn := range once {
		fn(rows)
	}
}

// record keeps payloads per item until the row is bound
func (s *Sink) record(pos, count int, payload any) {
	if payload == nil {
		return
	}
	for k := pos; k < pos+count && k < len(s.rows); k++ {
		item := s.rows[k].Item
		s.payloads[item] = append(s.payloads[item], payload)
	}
}

// prune forgets payloads of items that are no longer displayed
func (s *Sink) prune() {
	if len(s.payloads) == 0 {
		return
	}
	shown := make(map[*model.Item]bool, len(s.rows))
	for _, r := range s.rows {
		shown[r.Item] = true
	}
	for item := range s.payloads {
		if !shown[item] {
			delete(s.payloads, item)
		}
	}
}

// Bind calls fn for the row at pos with the payloads accumulated for it
// and clears them. It returns false when pos is not displayed.
func (s *Sink) Bind(pos int, fn BindFunc) bool {
	if pos < 0 || pos >= len(s.rows) {
		return false
	}
	item := s.rows[pos].Item
	payloads := s.payloads[item]
	delete(s.payloads, item)
	fn(item, pos, payloads)
	return true
}

// Pending returns the payloads waiting for the row at pos
func (s *Sink) Pending(pos int) []any {
	if pos < 0 || pos >= len(s.rows) {
		return nil
	}
	return s.payloads[s.rows[pos].Item]
}

func opCount(s *diff.Script) int {
	if s == nil {
		return 0
	}
	return len(s.Ops)
}
