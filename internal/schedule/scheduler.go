package schedule

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/logging"
)

// Mode selects how bursts of requests are coalesced
type Mode int

const (
	// Debounce runs only the last request of a burst, after Delay
	Debounce Mode = iota
	// Throttle runs at most once per Interval; requests inside the
	// interval are deferred to its boundary and the latest one wins
	Throttle
)

func (m Mode) String() string {
	if m == Throttle {
		return "throttle"
	}
	return "debounce"
}

// ParseMode maps a config name to a Mode, defaulting to Debounce
func ParseMode(name string) Mode {
	if name == "throttle" {
		return Throttle
	}
	return Debounce
}

// Options configures a Scheduler
type Options struct {
	Mode     Mode
	Delay    time.Duration
	Interval time.Duration
	Executor Executor
	Logger   *log.Logger
}

// Scheduler decides when a recompute runs. Run is always invoked through
// the executor, or inline for synchronous requests.
type Scheduler struct {
	mu      sync.Mutex
	opts    Options
	run     func(*filter.Params)
	logger  *log.Logger
	limiter *rate.Limiter

	gen     uint64
	timer   *time.Timer
	pending *filter.Params
	closed  bool
	runs    int
}

// New creates a scheduler that calls run for every request that survives
// coalescing.
func New(run func(*filter.Params), opts Options) *Scheduler {
	if opts.Executor == nil {
		opts.Executor = Inline{}
	}
	s := &Scheduler{
		opts:   opts,
		run:    run,
		logger: logging.OrDiscard(opts.Logger),
	}
	if opts.Mode == Throttle {
		interval := opts.Interval
		if interval <= 0 {
			interval = time.Millisecond
		}
		s.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return s
}

// Mode returns the coalescing mode
func (s *Scheduler) Mode() Mode {
	return s.opts.Mode
}

// Schedule requests a recompute with p. Synchronous requests cancel
// anything pending and run inline.
func (s *Scheduler) Schedule(p *filter.Params) {
	if p == nil {
		p = filter.NewParams()
	}
	if p.Synchronous {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.cancelLocked()
		s.runs++
		s.mu.Unlock()
		s.run(p)
		return
	}

	if s.opts.Mode == Throttle {
		s.throttle(p)
		return
	}
	s.After(s.opts.Delay, p)
}

// After debounces p with an explicit delay, superseding anything pending.
// Batch reveal uses it to schedule its next step.
func (s *Scheduler) After(delay time.Duration, p *filter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.pending = p
	s.arm(delay)
}

func (s *Scheduler) throttle(p *filter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = p
	if s.timer != nil {
		// already waiting for the boundary; the latest params win
		s.logger.Debug("throttled", "mode", s.opts.Mode)
		return
	}
	s.arm(s.limiter.Reserve().Delay())
}

// arm starts the timer for the current generation. Caller holds mu.
func (s *Scheduler) arm(delay time.Duration) {
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.opts.Executor.Post(func() { s.fire(gen) })
	})
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed || s.pending == nil {
		s.mu.Unlock()
		s.logger.Debug("superseded", "generation", gen)
		return
	}
	p := s.pending
	s.pending = nil
	s.timer = nil
	s.gen++
	s.runs++
	s.mu.Unlock()

	s.run(p)
}

// cancelLocked drops any pending request. Caller holds mu.
func (s *Scheduler) cancelLocked() {
	s.gen++
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Cancel drops the pending request, if any
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending reports whether a request is waiting to run
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Runs returns how many requests have run so far
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Close cancels pending work; later requests are ignored
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
}
