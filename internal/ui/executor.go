package ui

import (
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/listkit/internal/logging"
)

// Executor runs posted closures on the event loop goroutine by wrapping
// them in interrupt events
type Executor struct {
	screen *Screen
	logger *log.Logger
}

// NewExecutor creates an executor that posts to screen's event queue
func NewExecutor(screen *Screen, logger *log.Logger) *Executor {
	return &Executor{screen: screen, logger: logging.OrDiscard(logger)}
}

// Post queues fn. It is safe to call from any goroutine.
func (e *Executor) Post(fn func()) {
	if err := e.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		e.logger.Error("dropping posted work", "err", err)
	}
}

// RunInterrupt runs the closure carried by ev. It reports false for
// interrupts that were not posted by an Executor.
func RunInterrupt(ev *tcell.EventInterrupt) bool {
	fn, ok := ev.Data().(func())
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}
