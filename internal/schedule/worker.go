package schedule

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pstuifzand/listkit/internal/logging"
)

// Task computes on a background goroutine and returns the continuation to
// run on the executor. A nil continuation means nothing to apply.
type Task func(ctx context.Context) func()

// Worker is a single-slot background queue. Submitting a task supersedes
// the previous one: its context is cancelled and its continuation is
// dropped even if it already finished.
type Worker struct {
	exec   Executor
	logger *log.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	busy   bool
}

// NewWorker creates a worker posting continuations to exec
func NewWorker(exec Executor, logger *log.Logger) *Worker {
	if exec == nil {
		exec = Inline{}
	}
	return &Worker{exec: exec, logger: logging.OrDiscard(logger)}
}

func (w *Worker) supersede() (uint64, context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	w.gen++
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.busy = true
	return w.gen, ctx
}

func (w *Worker) current(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return gen == w.gen
}

func (w *Worker) finish(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return false
	}
	w.busy = false
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	return true
}

// Submit runs task in the background
func (w *Worker) Submit(task Task) {
	gen, ctx := w.supersede()
	go func() {
		apply := task(ctx)
		if ctx.Err() != nil || !w.current(gen) {
			w.logger.Debug("superseded", "generation", gen)
			return
		}
		w.exec.Post(func() {
			// re-check on the executor: a newer Submit may have landed first
			if !w.finish(gen) {
				w.logger.Debug("superseded", "generation", gen)
				return
			}
			if apply != nil {
				apply()
			}
		})
	}()
}

// Run executes task and its continuation inline, superseding any
// in-flight background task.
func (w *Worker) Run(task Task) {
	gen, ctx := w.supersede()
	apply := task(ctx)
	if w.finish(gen) && apply != nil {
		apply()
	}
}

// Busy reports whether a task is in flight
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Cancel supersedes the in-flight task without starting a new one
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.gen++
	w.busy = false
}
