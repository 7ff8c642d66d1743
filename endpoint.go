package iochannel

import "sync/atomic"

// Role identifies which side of a channel an [Endpoint] is.
type Role uint8

const (
	// RoleToWorker is the master endpoint: it sends requests and
	// receives replies.
	RoleToWorker Role = iota
	// RoleFromWorker is the worker endpoint: it receives requests and
	// sends replies.
	RoleFromWorker
)

func (r Role) String() string {
	if r == RoleToWorker {
		return "TO_WORKER"
	}
	return "FROM_WORKER"
}

// Endpoint holds one side's counters, timestamps, and lane handles. Per
// spec §5, sequence/ack/outstanding/timestamps/counters are mutated only
// by the thread that owns this endpoint's writer role; the other side
// only ever observes them indirectly via message framing fields and
// control-record acks. They are nonetheless stored as atomics, since the
// peer thread does issue read-only loads of them (e.g. the signal
// heuristic reads peer.ack) and Go's race detector — correctly — treats
// an unsynchronized cross-goroutine read/write pair as a race even when
// the write side is the sole writer.
type Endpoint struct {
	role Role

	// kq is this endpoint's own thread's wakeup target: woken by the
	// peer after it signals.
	kq Wakeup
	// aq is the inbound bulk lane this endpoint reads from (the peer's
	// outbound lane).
	aq BulkQueue
	// control is the outbound control lane used to signal the peer.
	control ControlQueue

	sequence             atomic.Uint64
	ack                  atomic.Uint64
	numOutstanding       atomic.Int64
	sequenceAtLastSignal atomic.Uint64

	lastWrite      atomic.Int64
	lastReadOther  atomic.Int64
	lastSentSignal atomic.Int64

	messageInterval atomic.Int64

	numSignals   atomic.Uint64
	numResignals atomic.Uint64
	numKevents   atomic.Uint64

	// ctx is an opaque per-worker pointer, populated on the worker
	// endpoint only.
	ctx any

	depth QueueMetrics
}

// Sequence returns the number of messages sent so far on this endpoint's
// outbound lane.
func (e *Endpoint) Sequence() uint64 { return e.sequence.Load() }

// Ack returns the highest sequence observed from the peer.
func (e *Endpoint) Ack() uint64 { return e.ack.Load() }

// NumOutstanding returns sent-but-unanswered (master) or
// received-but-unreplied (worker) message counts.
func (e *Endpoint) NumOutstanding() int64 { return e.numOutstanding.Load() }

// MessageInterval returns the smoothed inter-message interval, in
// nanoseconds.
func (e *Endpoint) MessageInterval() int64 { return e.messageInterval.Load() }

// NumSignals, NumResignals, NumKevents report instrumentation counters.
func (e *Endpoint) NumSignals() uint64   { return e.numSignals.Load() }
func (e *Endpoint) NumResignals() uint64 { return e.numResignals.Load() }
func (e *Endpoint) NumKevents() uint64   { return e.numKevents.Load() }

// QueueDepth reports statistics (current, max, and an EMA-smoothed
// average) of this endpoint's num_outstanding, sampled after each
// successful send on it; it does not read either bulk lane's length. A
// supplemented feature
// (SPEC_FULL.md §12) feeding the same kind of load signal the mandatory
// message_interval EMA does.
func (e *Endpoint) QueueDepth() (current, max int64, avg float64) {
	return e.depth.Snapshot()
}

// Context returns the worker endpoint's opaque per-worker pointer.
func (e *Endpoint) Context() any { return e.ctx }

// SetContext sets the worker endpoint's opaque per-worker pointer.
func (e *Endpoint) SetContext(ctx any) { e.ctx = ctx }

// updateInterval applies the §4.1 smoothing on every successful send.
func (e *Endpoint) updateInterval(sampleInterval int64, ialpha int64) {
	old := e.messageInterval.Load()
	e.messageInterval.Store(ialphaEMA(old, sampleInterval, ialpha))
}

// advanceLastWrite enforces monotonicity (invariant 3) and records the
// new last_write.
func (e *Endpoint) advanceLastWrite(now int64, debug bool) error {
	if prev := e.lastWrite.Load(); now < prev {
		if err := debugAssert(debug, false, "last_write went backwards: %d < %d", now, prev); err != nil {
			return err
		}
	}
	e.lastWrite.Store(now)
	return nil
}

// advanceLastReadOther enforces monotonicity (invariant 3) and records
// the new last_read_other.
func (e *Endpoint) advanceLastReadOther(when int64) {
	for {
		prev := e.lastReadOther.Load()
		if when <= prev {
			return
		}
		if e.lastReadOther.CompareAndSwap(prev, when) {
			return
		}
	}
}
