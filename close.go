package iochannel

// CloseMaster begins the close handshake from the master side (spec
// §4.9, §8 scenario S5's signal_worker_close): it sets the channel
// inactive and emits CLOSE to the worker's control lane, waking it.
// Post-close sends are a caller error (spec §4.9); SendRequest and
// SendReply reject them with ErrChannelClosed by checking the active
// flag, and nothing else is enforced.
func (ch *Channel) CloseMaster() error {
	ch.active.Store(false)
	return ch.emitSignal(&ch.master, &ch.worker, ch.now(), SignalClose)
}

// CloseWorker is the symmetric worker-initiated counterpart to
// [Channel.CloseMaster].
func (ch *Channel) CloseWorker() error {
	ch.active.Store(false)
	return ch.emitSignal(&ch.worker, &ch.master, ch.now(), SignalClose)
}

// AckCloseWorker is called by the worker upon observing a CLOSE event
// (spec §8 scenario S5's worker_ack_close): it marks the channel
// inactive (idempotent if the master already did so) and mirrors CLOSE
// back to the master, then releases the channel's table entry once both
// sides have been observed closed.
func (ch *Channel) AckCloseWorker() error {
	ch.active.Store(false)
	err := ch.emitSignal(&ch.worker, &ch.master, ch.now(), SignalClose)
	ch.finishClose()
	return err
}

// AckCloseMaster is the symmetric counterpart: called by the master upon
// observing a CLOSE event that the worker initiated.
func (ch *Channel) AckCloseMaster() error {
	ch.active.Store(false)
	err := ch.emitSignal(&ch.master, &ch.worker, ch.now(), SignalClose)
	ch.finishClose()
	return err
}

// finishClose releases the channel from its table once both CLOSE
// records have been observed by their recipients (spec §3 Lifecycle).
// Called from whichever side sends the second (mirroring) CLOSE; the
// side that merely initiated does not release, since its peer has not
// yet necessarily observed the close.
func (ch *Channel) finishClose() {
	if ch.closing.CompareAndSwap(false, true) {
		ch.release()
	}
}
