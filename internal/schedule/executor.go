// Package schedule coalesces recompute requests and hands work between the
// main thread and a single background worker.
package schedule

import (
	"context"
	"sync"
)

// Executor runs closures on the goroutine that owns list state
type Executor interface {
	Post(fn func())
}

// Inline runs closures immediately on the posting goroutine
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

// Loop is an unbounded queue of closures drained by one goroutine
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	notify chan struct{}
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{notify: make(chan struct{}, 1)}
}

// Post queues fn; it never blocks
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Drain runs every queued closure on the calling goroutine, including
// closures queued while draining, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Len returns the number of queued closures
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run drains the queue whenever work arrives until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.notify:
			l.Drain()
		}
	}
}
