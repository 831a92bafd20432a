package clock

import (
	"sync/atomic"

	"main/internal/schema"
)

// Clock is a monotonic logical clock standing in for block height.
// The zero value starts at height 1 on first Tick.
type Clock struct {
	height atomic.Uint64
}

// New creates a clock starting at the given height.
func New(start schema.Seq) *Clock {
	c := &Clock{}
	c.height.Store(uint64(start))
	return c
}

// Now returns the current height without advancing.
func (c *Clock) Now() schema.Seq {
	return schema.Seq(c.height.Load())
}

// Tick advances the clock and returns the new height.
func (c *Clock) Tick() schema.Seq {
	return schema.Seq(c.height.Add(1))
}
