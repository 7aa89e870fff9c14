// Package filter turns the source list into the rows a view displays by
// threading it through an ordered chain of interceptors.
package filter

import (
	"github.com/charmbracelet/log"
	"github.com/pstuifzand/listkit/internal/model"
)

// Hooks lets interceptors reach back into the owning list
type Hooks interface {
	// RequestChildren starts loading the sub-items of item
	RequestChildren(item *model.Item)
}

type noHooks struct{}

func (noHooks) RequestChildren(*model.Item) {}

// Call is the state threaded through one chain pass
type Call struct {
	Rows   model.Rows
	Params *Params

	hooks       Hooks
	interrupted bool
}

// Interrupt stops the chain after the current interceptor
func (c *Call) Interrupt() {
	c.interrupted = true
}

// Interrupted reports whether an interceptor stopped the chain
func (c *Call) Interrupted() bool {
	return c.interrupted
}

// RequestChildren starts loading the sub-items of item
func (c *Call) RequestChildren(item *model.Item) {
	c.hooks.RequestChildren(item)
}

// Interceptor transforms the rows produced by its predecessor
type Interceptor interface {
	Intercept(c *Call) model.Rows
}

// InterceptorFunc adapts a function to Interceptor
type InterceptorFunc func(c *Call) model.Rows

func (f InterceptorFunc) Intercept(c *Call) model.Rows {
	return f(c)
}

// Chain runs interceptors in registration order
type Chain struct {
	interceptors []Interceptor
	logger       *log.Logger
}

// NewChain creates a chain with the given interceptors
func NewChain(interceptors ...Interceptor) *Chain {
	return &Chain{interceptors: interceptors}
}

// SetLogger sets the logger used for chain diagnostics
func (ch *Chain) SetLogger(logger *log.Logger) {
	ch.logger = logger
}

// Add appends an interceptor
func (ch *Chain) Add(interceptor Interceptor) {
	ch.interceptors = append(ch.interceptors, interceptor)
}

// Len returns the number of registered interceptors
func (ch *Chain) Len() int {
	return len(ch.interceptors)
}

// Run threads rows through every interceptor and returns the final list
func (ch *Chain) Run(rows model.Rows, params *Params, hooks Hooks) model.Rows {
	if params == nil {
		params = NewParams()
	}
	if hooks == nil {
		hooks = noHooks{}
	}
	c := &Call{Rows: rows, Params: params, hooks: hooks}
	for i, interceptor := range ch.interceptors {
		out := interceptor.Intercept(c)
		if out == nil {
			out = model.Rows{}
		}
		c.Rows = out
		if c.interrupted {
			if ch.logger != nil {
				ch.logger.Debug("chain interrupted", "at", i, "rows", len(c.Rows))
			}
			break
		}
	}
	return c.Rows
}
