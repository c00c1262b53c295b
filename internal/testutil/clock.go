package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2026-01-15 10:30:00 local time, so
// backup timestamps render as "2026-01-15 10:30:00" in any time zone.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2026, 1, 15, 10, 30, 0, 0, time.Local))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "<prefix>-1", "<prefix>-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

// NewPrefixedIDGenerator creates a generator producing "<prefix>-1", ...
func NewPrefixedIDGenerator(prefix string) *StubIDGenerator {
	return &StubIDGenerator{prefix: prefix}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}
