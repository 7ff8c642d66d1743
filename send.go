package iochannel

// SendRequest implements spec §4.2. msg.When must be monotonically
// non-decreasing relative to previous sends on this channel's master
// endpoint. On success the message is queued for the worker (and the
// worker woken if warranted); on overload the message is not queued and
// sequence is not advanced, but a reply may still be returned if one was
// available to drain.
func (ch *Channel) SendRequest(msg *Message) (Status, *Message, error) {
	if !ch.Active() {
		return StatusOverload, nil, ErrChannelClosed
	}

	e, peer := &ch.master, &ch.worker
	now := msg.When

	msg.Sequence = e.sequence.Load() + 1
	msg.Ack = e.ack.Load()

	if !peer.aq.Push(msg) {
		// Overload: try to drain one reply so the caller has
		// something to make forward progress on, without advancing
		// sequence.
		reply, _ := ch.RecvReply()
		return StatusOverload, reply, ErrOverload
	}

	prevWrite := e.lastWrite.Load()
	if err := e.advanceLastWrite(now, ch.opts.debug); err != nil {
		return StatusOK, nil, err
	}
	sample := now - prevWrite
	if sample < 0 {
		sample = 0
	}
	e.sequence.Store(msg.Sequence)
	e.updateInterval(sample, ch.opts.ialpha)

	outstanding := e.numOutstanding.Add(1)
	e.depth.Update(int(outstanding))

	var reply *Message
	if outstanding > 1 {
		reply, _ = ch.RecvReply()
	}

	mandatory := outstanding == 1
	if err := ch.signal(e, peer, now, mandatory, SignalDataToWorker); err != nil {
		return StatusOK, reply, err
	}

	return StatusOK, reply, nil
}

// RecvReply implements spec §4.3: a non-blocking pop from the master's
// inbound (from_worker) lane.
func (ch *Channel) RecvReply() (*Message, error) {
	e := &ch.master

	msg, ok := e.aq.Pop()
	if !ok {
		return nil, nil
	}

	if err := debugAssert(ch.opts.debug, msg.Sequence > e.ack.Load(),
		"reply.sequence %d must exceed master.ack %d", msg.Sequence, e.ack.Load()); err != nil {
		return msg, err
	}
	if err := debugAssert(ch.opts.debug, msg.Sequence <= e.sequence.Load(),
		"reply.sequence %d must not exceed master.sequence %d", msg.Sequence, e.sequence.Load()); err != nil {
		return msg, err
	}

	ch.updateAggregate(msg.ProcessingTime, msg.CPUTime)
	e.numOutstanding.Add(-1)
	e.ack.Store(msg.Sequence)
	e.advanceLastReadOther(msg.When)

	return msg, nil
}

// RecvRequest implements spec §4.4: a non-blocking pop from the worker's
// inbound (to_worker) lane.
func (ch *Channel) RecvRequest() (*Message, error) {
	e := &ch.worker

	msg, ok := e.aq.Pop()
	if !ok {
		return nil, nil
	}

	if err := debugAssert(ch.opts.debug, msg.Sequence > e.ack.Load(),
		"request.sequence %d must exceed worker.ack %d", msg.Sequence, e.ack.Load()); err != nil {
		return msg, err
	}
	if err := debugAssert(ch.opts.debug, msg.Sequence >= e.sequence.Load(),
		"request.sequence %d must not be behind worker.sequence %d", msg.Sequence, e.sequence.Load()); err != nil {
		return msg, err
	}

	e.numOutstanding.Add(1)
	e.ack.Store(msg.Sequence)
	// last_read_other on the worker side is not named explicitly in
	// spec §4.4, but the data model (§3) describes it generically per
	// endpoint, and the worker's half of the elision heuristic (§4.6)
	// needs "we recently heard from the peer" to mean something on
	// this side too. Completing that symmetrically with the master's
	// recv_reply behavior (§4.3) is the natural reading; see DESIGN.md.
	e.advanceLastReadOther(msg.When)

	return msg, nil
}

// SendReply implements spec §4.5. msg.When must be monotonically
// non-decreasing relative to previous sends on this channel's worker
// endpoint.
func (ch *Channel) SendReply(msg *Message) (Status, *Message, error) {
	if !ch.Active() {
		return StatusOverload, nil, ErrChannelClosed
	}

	e, peer := &ch.worker, &ch.master
	now := msg.When

	msg.Sequence = e.sequence.Load() + 1
	msg.Ack = e.ack.Load()

	if !peer.aq.Push(msg) {
		req, _ := ch.RecvRequest()
		return StatusOverload, req, ErrOverload
	}

	prevWrite := e.lastWrite.Load()
	if err := e.advanceLastWrite(now, ch.opts.debug); err != nil {
		return StatusOK, nil, err
	}
	sample := now - prevWrite
	if sample < 0 {
		sample = 0
	}
	e.sequence.Store(msg.Sequence)
	e.updateInterval(sample, ch.opts.ialpha)

	// The reply resolves one outstanding request.
	outstanding := e.numOutstanding.Add(-1)
	e.depth.Update(int(outstanding))

	req, _ := ch.RecvRequest()

	// Design note (spec §9): the source's reply-send path asserts
	// worker.last_write monotonicity (handled above via e, which is
	// worker here) but reads the *opposite* endpoint's ack for the lag
	// threshold. In this generic, correctly-parameterized
	// implementation "peer" always resolves to ch.master when called
	// from the worker side, so that is exactly what shouldSignal reads
	// — the historical bug (a hardcoded "master" where a generic "peer"
	// was intended) cannot manifest here; see DESIGN.md.
	mandatory := outstanding == 0
	if err := ch.signal(e, peer, now, mandatory, SignalDataFromWorker); err != nil {
		return StatusOK, req, err
	}

	return StatusOK, req, nil
}

// WorkerSleeping implements spec §4.7: called from the worker's idle
// loop. If there is no outstanding work, it returns without signaling;
// otherwise it unconditionally sends WORKER_SLEEPING carrying the
// worker's current ack, so the master can decide (§4.8) whether it has
// pushed further work the worker hasn't seen yet.
func (ch *Channel) WorkerSleeping() error {
	e, peer := &ch.worker, &ch.master
	if e.numOutstanding.Load() == 0 {
		return nil
	}
	return ch.emitSignal(e, peer, ch.now(), SignalWorkerSleeping)
}
