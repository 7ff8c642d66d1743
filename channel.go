package iochannel

import "sync/atomic"

// Channel owns two endpoints joined by two bulk lanes and a control lane,
// plus the active/closing state and aggregate CPU/processing time the
// worker reports back (spec §3, "Channel").
type Channel struct {
	ref ChannelRef

	master Endpoint
	worker Endpoint

	active  atomic.Bool
	closing atomic.Bool
	opened  atomic.Bool

	// cpuTime is overwritten (not smoothed) from the latest reply.
	cpuTime atomic.Int64
	// processingTime is the channel-wide smoothed processing time
	// (spec §4.1).
	processingTime atomic.Int64

	opts   channelOptions
	table  *channelTable
}

// NewChannel constructs a channel with both bulk lanes and the master
// side's control lane in place. The worker endpoint's wakeup target is
// left nil, and its control handle is workerControl as given: pass nil to
// leave it unset until [Open] completes the handshake and the worker calls
// [Channel.InstallWorkerControl] (spec §3 Lifecycle, §4.9). A non-nil
// workerControl installs it up front, and InstallWorkerControl then fails
// with ErrDoubleOpen.
//
// masterKQ is the master thread's own wakeup target, woken by the worker
// after it signals. masterControl is the control lane the master pushes
// to and the worker drains: it carries the initial OPEN record and every
// subsequent DATA_TO_WORKER/CLOSE signal from the master. workerControl
// is the mirror, pushed to by the worker and drained by the master, used
// to signal DATA_FROM_WORKER/CLOSE back.
func NewChannel(masterKQ Wakeup, toWorker, fromWorker BulkQueue, masterControl, workerControl ControlQueue, opts ...Option) *Channel {
	o := defaultChannelOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	if toWorker == nil {
		toWorker = NewBulkQueue(o.queueCapacity)
	}
	if fromWorker == nil {
		fromWorker = NewBulkQueue(o.queueCapacity)
	}

	ch := &Channel{
		opts:  o,
		table: o.table,
	}
	ch.master = Endpoint{role: RoleToWorker, kq: masterKQ, aq: fromWorker, control: masterControl}
	ch.worker = Endpoint{role: RoleFromWorker, aq: toWorker, control: workerControl}
	ch.active.Store(true)
	ch.ref = ch.table.register(ch)
	return ch
}

// Ref returns the opaque handle used in control records for this
// channel.
func (ch *Channel) Ref() ChannelRef { return ch.ref }

// Master returns the master-side [Endpoint] (send requests, receive
// replies).
func (ch *Channel) Master() *Endpoint { return &ch.master }

// Worker returns the worker-side [Endpoint] (receive requests, send
// replies).
func (ch *Channel) Worker() *Endpoint { return &ch.worker }

// Active reports whether the channel is still open. Mutation of this
// flag is a single atomic write by the closing side (invariant 5: once
// false, never true again); reads are informational only, per spec §5.
func (ch *Channel) Active() bool { return ch.active.Load() }

// CPUTime returns the latest reply's reported CPU time (overwritten, not
// smoothed, per spec §4.1).
func (ch *Channel) CPUTime() int64 { return ch.cpuTime.Load() }

// ProcessingTime returns the channel-wide smoothed processing time.
func (ch *Channel) ProcessingTime() int64 { return ch.processingTime.Load() }

// Open performs the creator's half of the handshake (spec §4.9): it
// sends {OPEN, 0, ref} to the worker's control lane. It fails with
// ErrDoubleOpen if already called for this channel.
func (ch *Channel) Open() error {
	if !ch.opened.CompareAndSwap(false, true) {
		return ErrDoubleOpen
	}
	rec := ControlRecord{Signal: SignalOpen, Ack: 0, Channel: ch.ref}
	if !ch.master.control.Push(rec) {
		return ErrControlSend
	}
	return nil
}

// InstallWorkerControl completes the worker's half of the open handshake
// upon observing an OPEN event: it binds the worker endpoint's own
// wakeup target and its outbound control lane (used to signal the
// master). Fails with ErrDoubleOpen if the worker endpoint is already
// installed.
func (ch *Channel) InstallWorkerControl(workerKQ Wakeup, control ControlQueue) error {
	if ch.worker.kq != nil || ch.worker.control != nil {
		return ErrDoubleOpen
	}
	ch.worker.kq = workerKQ
	ch.worker.control = control
	return nil
}

// now returns the channel's clock reading.
func (ch *Channel) now() int64 { return ch.opts.clock.NowNano() }

// updateAggregate applies a reply's processing_time/cpu_time to the
// channel-wide aggregate (spec §4.1): processing_time is smoothed with
// the configured IALPHA, cpu_time is overwritten outright.
func (ch *Channel) updateAggregate(processingTime, cpuTime int64) {
	old := ch.processingTime.Load()
	ch.processingTime.Store(ialphaEMA(old, processingTime, ch.opts.ialpha))
	ch.cpuTime.Store(cpuTime)
}

// release drops the channel from its table. Called once both sides of
// the close handshake have completed (spec §3 Lifecycle: "the channel
// object persists until the second CLOSE acknowledgement, then is
// released by its owning allocator").
func (ch *Channel) release() {
	ch.table.release(ch.ref)
}
