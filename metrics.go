package iochannel

import (
	"math"
	"sync/atomic"
)

// ialphaEMA applies the fixed-point exponential moving average from spec
// §4.1: new = (old + (IALPHA-1)*sample) / IALPHA. ialpha must be >= 1.
func ialphaEMA(old, sample int64, ialpha int64) int64 {
	return (old + (ialpha-1)*sample) / ialpha
}

// QueueMetrics tracks bulk-lane depth statistics for one direction:
// current depth, the maximum observed, and an exponential moving average
// (alpha=0.1), matching the teacher's metrics.go QueueMetrics in
// substance. This is a supplemented feature (SPEC_FULL.md §12): the
// spec's §1 describes per-channel latency feeding load-balancing
// decisions, and queue depth is the natural complement to the mandatory
// message_interval EMA for that purpose.
//
// Unlike the teacher's mutex-guarded original, avg is held lock-free: the
// owning Endpoint's depth field is single-writer (only the thread that
// drives SendRequest/SendReply on that lane calls Update), so the
// read-modify-write of the smoothed average needs no CAS — a plain
// atomic store of the new bit pattern is enough to keep concurrent
// Snapshot readers from observing a torn float64. This keeps the
// instrumentation off the hot path's only point of contention risk: the
// spec's "wait-free modulo the underlying lanes" throughput goal (§5).
type QueueMetrics struct {
	current atomic.Int64
	max     atomic.Int64

	avgBits     atomic.Uint64
	initialized atomic.Bool
}

// Update records a new depth observation. Must only be called by the
// single thread that owns this lane's writer role.
func (q *QueueMetrics) Update(depth int) {
	q.current.Store(int64(depth))
	for {
		m := q.max.Load()
		if int64(depth) <= m || q.max.CompareAndSwap(m, int64(depth)) {
			break
		}
	}
	var avg float64
	if !q.initialized.Load() {
		avg = float64(depth)
		q.initialized.Store(true)
	} else {
		avg = 0.9*math.Float64frombits(q.avgBits.Load()) + 0.1*float64(depth)
	}
	q.avgBits.Store(math.Float64bits(avg))
}

// Snapshot returns (current, max, average) depth.
func (q *QueueMetrics) Snapshot() (current, max int64, avg float64) {
	return q.current.Load(), q.max.Load(), math.Float64frombits(q.avgBits.Load())
}
