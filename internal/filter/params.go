package filter

import "github.com/pstuifzand/listkit/internal/model"

// Params describes a single recomputation request. It is consumed by one
// chain pass and discarded.
type Params struct {
	SourceItem                   *model.Item // item that triggered the pass, scopes dependent notifications
	Synchronous                  bool        // bypass the scheduler delay
	Immediate                    bool        // diff on the calling goroutine instead of the worker
	FilterOnly                   bool        // compute the filtered list without dispatching edits
	EmptyDependentsStillDispatch bool        // dispatch the full script even without dependents
	Payload                      any         // passed through to change notifications

	batchShown int // rows exposed by a truncating Batch, 0 when nothing was held back
}

// Option modifies Params
type Option func(*Params)

// NewParams builds Params from options
func NewParams(opts ...Option) *Params {
	p := &Params{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sync bypasses the debounce delay
func Sync() Option {
	return func(p *Params) { p.Synchronous = true }
}

// Immediate runs the diff on the calling goroutine
func Immediate() Option {
	return func(p *Params) { p.Immediate = true }
}

// FilterOnly skips dispatching view edits
func FilterOnly() Option {
	return func(p *Params) { p.FilterOnly = true }
}

// Source sets the item that triggered the pass
func Source(item *model.Item) Option {
	return func(p *Params) { p.SourceItem = item }
}

// Payload attaches data to the change notifications of the pass
func Payload(v any) Option {
	return func(p *Params) { p.Payload = v }
}

// StillDispatch forces a full dispatch even when no dependents are affected
func StillDispatch() Option {
	return func(p *Params) { p.EmptyDependentsStillDispatch = true }
}

// Now is shorthand for a synchronous pass diffed on the calling goroutine
func Now() Option {
	return func(p *Params) {
		p.Synchronous = true
		p.Immediate = true
	}
}
