package iochannel

import (
	"sync/atomic"
	"time"
)

// Clock supplies monotonic nanosecond timestamps to the channel. The spec
// treats timekeeping as an external collaborator (out of scope); the
// channel only needs a monotonically non-decreasing source, not wall-clock
// accuracy.
type Clock interface {
	// NowNano returns the current time as nanoseconds since some
	// unspecified, fixed epoch. Successive calls from the same caller
	// must be non-decreasing.
	NowNano() int64
}

// systemClock is the default [Clock], backed by [time.Now]'s monotonic
// reading.
type systemClock struct {
	start time.Time
}

// SystemClock returns the default [Clock], using the runtime's monotonic
// clock reading relative to the moment SystemClock was called.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) NowNano() int64 {
	return int64(time.Since(c.start))
}

// FakeClock is a deterministic [Clock] for tests, following the same
// "swap the time source" convention as catrate's timeNow variable: instead
// of sleeping in tests, advance the clock explicitly and observe the
// channel's reaction.
type FakeClock struct {
	nanos atomic.Int64
}

// NewFakeClock creates a FakeClock starting at the given nanosecond value.
func NewFakeClock(startNanos int64) *FakeClock {
	c := &FakeClock{}
	c.nanos.Store(startNanos)
	return c
}

func (c *FakeClock) NowNano() int64 { return c.nanos.Load() }

// Set moves the clock to an absolute nanosecond value. Panics if it would
// move backwards, since the channel relies on monotonicity.
func (c *FakeClock) Set(nanos int64) {
	if nanos < c.nanos.Load() {
		panic("iochannel: FakeClock may not move backwards")
	}
	c.nanos.Store(nanos)
}

// Advance moves the clock forward by delta nanoseconds.
func (c *FakeClock) Advance(delta int64) {
	if delta < 0 {
		panic("iochannel: FakeClock may not move backwards")
	}
	c.nanos.Add(delta)
}
