package infra

import "time"

// Clock abstracts time for the engine. Production runs read the system
// clock; backtests inject a LogicalClock so that replaying the same
// inputs yields identical timestamps.
type Clock interface {
	NowMillis() int64
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) NowMillis() int64 { return time.Now().UnixMilli() }

// LogicalClock is a monotonic counter clock: every reading advances one
// millisecond from the configured start. Only safe for a single reader;
// the engine goroutine owns it.
type LogicalClock struct {
	now int64
}

// NewLogicalClock creates a logical clock starting just after start.
func NewLogicalClock(start int64) *LogicalClock {
	return &LogicalClock{now: start}
}

func (c *LogicalClock) NowMillis() int64 {
	c.now++
	return c.now
}
