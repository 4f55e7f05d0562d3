package mock

import (
	"sync"
	"time"
)

// Time is a clock that runs from a settable start and can be moved forward.
type Time struct {
	mu     sync.Mutex
	base   time.Time
	setAt  time.Time
	offset time.Duration
}

func NewTime() *Time {
	now := time.Now()
	return &Time{base: now, setAt: now}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.base = currentTime
	t.setAt = time.Now()
	t.offset = 0
}

// Advance moves the clock forward by d.
func (t *Time) Advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset += d
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.base.Add(time.Since(t.setAt) + t.offset)
}
