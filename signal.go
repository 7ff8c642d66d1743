package iochannel

// SignalInterval is the default minimum spacing between non-mandatory
// signals (spec §4.6, 1ms in nanoseconds). It, and LagThreshold, are the
// only tunables the spec exposes.
const SignalInterval = 1_000_000 // 1ms in nanoseconds

// LagThreshold is the default outstanding-ack lag above which a signal
// becomes mandatory regardless of recency.
const LagThreshold = 1000

// shouldSignal implements the elision heuristic of spec §4.6. e is the
// endpoint that just sent (or, for the idle case, whose outstanding count
// just changed); peer is its opposite endpoint on the same channel. now
// is the timestamp of the triggering event (the sent message's When, or
// the current clock reading). mandatory, if already known true by the
// caller (e.g. the first send on this endpoint, or the post-reply
// pipeline-empty case), short-circuits straight to true.
func (ch *Channel) shouldSignal(e, peer *Endpoint, now int64, mandatory bool) bool {
	if mandatory {
		return true
	}

	lag := int64(e.sequence.Load()) - int64(peer.ack.Load())
	if lag > ch.opts.lagThreshold {
		return true
	}

	if ch.opts.platformElisionRefinement {
		// Platform refinement (spec §4.6, §9): if the wakeup primitive
		// guarantees an un-acked signal is still pending delivery, a
		// side that has already signalled ahead of the peer's ack may
		// elide unconditionally. Conservative default OFF: only
		// engaged when WithPlatformElisionRefinement(true) is set, by
		// a caller who has verified their Wakeup implementation
		// coalesces this way.
		if e.sequenceAtLastSignal.Load() > peer.ack.Load() {
			return false
		}
	}

	heardRecently := now-e.lastReadOther.Load() < ch.opts.signalInterval
	signalledRecently := now-e.lastSentSignal.Load() < ch.opts.signalInterval

	if heardRecently || signalledRecently {
		return false
	}

	return true
}

// signal emits a control record to peer's thread and wakes peer.kq, if
// shouldSignal says to. It always updates sequence_at_last_signal when it
// actually signals, per §4.6.
func (ch *Channel) signal(e, peer *Endpoint, now int64, mandatory bool, signalType SignalType) error {
	if !ch.shouldSignal(e, peer, now, mandatory) {
		return nil
	}
	return ch.emitSignal(e, peer, now, signalType)
}

// emitSignal unconditionally sends the control record and wakes the
// peer, without consulting the elision heuristic. Used both by signal
// (after the heuristic passes) and by the mandatory re-signal path in
// service_control (§4.8).
func (ch *Channel) emitSignal(e, peer *Endpoint, now int64, signalType SignalType) error {
	rec := ControlRecord{
		Signal:  signalType,
		Ack:     e.ack.Load(),
		Channel: ch.ref,
	}
	if !e.control.Push(rec) {
		return ErrControlSend
	}
	e.lastSentSignal.Store(now)
	e.sequenceAtLastSignal.Store(e.sequence.Load())
	e.numSignals.Add(1)
	if peer.kq != nil {
		if err := peer.kq.Wake(); err != nil {
			return err
		}
	}
	return nil
}
