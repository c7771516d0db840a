package sim

import "time"

// WallClock measures time since construction on the monotonic clock.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() time.Duration { return time.Since(c.start) }

// ManualClock only moves when told to. Used for offline rendering and tests.
type ManualClock struct {
	t time.Duration
}

func (c *ManualClock) Now() time.Duration { return c.t }

func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.t += d
	}
}

func (c *ManualClock) Set(t time.Duration) {
	if t > c.t {
		c.t = t
	}
}
