package iochannel

// newTestChannel builds a fully-wired Channel for direct unit testing: both
// control lanes and both wakeup targets are connected up front (bypassing
// the OPEN handshake, which is exercised separately in channel_test.go),
// backed by a fresh, isolated channel table and an injected FakeClock so
// scenario tests control time explicitly rather than sleeping.
func newTestChannel(clock *FakeClock, opts ...Option) (*Channel, *FakeClock) {
	if clock == nil {
		clock = NewFakeClock(0)
	}
	table := newChannelTable()

	masterKQ := NewChanWakeup()
	workerKQ := NewChanWakeup()

	// masterControl is pushed to by the master endpoint (ch.master.control)
	// and drained by the worker's ControlService; workerControl is the
	// mirror, pushed to by the worker and drained by the master.
	masterControl := NewControlQueue(DefaultQueueSize)
	workerControl := NewControlQueue(DefaultQueueSize)

	allOpts := append([]Option{withChannelTable(table), WithClock(clock)}, opts...)
	// toWorker/fromWorker are left nil so NewChannel builds them sized by
	// whatever WithQueueCapacity the caller passed in opts.
	ch := NewChannel(masterKQ, nil, nil, masterControl, workerControl, allOpts...)
	ch.worker.kq = workerKQ
	return ch, clock
}
