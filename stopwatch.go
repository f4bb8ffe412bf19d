package deskkit

import (
	"sync"
	"time"
)

// Stopwatch measures wall time between Start and Stop. It is safe to call
// from a UI goroutine and a ticker goroutine at once.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	start   time.Time
	end     time.Time
	running bool
}

func NewStopwatch() *Stopwatch { return NewStopwatchWithClock(time.Now) }

func NewStopwatchWithClock(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Start begins a new measurement, discarding any previous one.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = s.now()
	s.end = time.Time{}
	s.running = true
}

// Stop ends the measurement and returns the elapsed time. Stopping a
// stopwatch that was never started returns ErrNotStarted.
func (s *Stopwatch) Stop() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() {
		return 0, ErrNotStarted
	}
	if s.running {
		s.end = s.now()
		s.running = false
	}
	return s.end.Sub(s.start), nil
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.start.IsZero():
		return 0
	case s.running:
		return s.now().Sub(s.start)
	default:
		return s.end.Sub(s.start)
	}
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end, s.running = time.Time{}, time.Time{}, false
}

// FormatElapsed renders d as seconds with two decimals.
func FormatElapsed(d time.Duration) string {
	return formatSeconds(d.Seconds())
}
