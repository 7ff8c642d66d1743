package iochannel

// ControlService drains a thread's incoming [ControlQueue] and translates
// records into [Event] values for the host scheduler, per spec §4.8. One
// ControlService typically serves all channels whose control records
// arrive on a given consumer thread; channels are resolved by
// [ChannelRef] through a shared [channelTable].
type ControlService struct {
	table *channelTable
}

// NewControlService creates a ControlService backed by the package-wide
// default channel table. Use [NewControlServiceWithTable] for an isolated
// table (e.g. one per event-loop shard).
func NewControlService() *ControlService {
	return &ControlService{table: defaultChannelTable}
}

// NewControlServiceWithTable creates a ControlService backed by an
// explicit channel table, matching whatever table NewChannel's
// withChannelTable option was given.
func NewControlServiceWithTable(table *channelTable) *ControlService {
	return &ControlService{table: table}
}

// Service pops one record from cq and translates it per spec §4.8's
// table. An empty queue yields EventEmpty. An unrecognized signal, or one
// whose ChannelRef does not resolve, yields EventError.
func (s *ControlService) Service(cq ControlQueue) (Event, ChannelRef, error) {
	rec, ok := cq.Pop()
	if !ok {
		return EventEmpty, 0, nil
	}

	ch, found := s.table.lookup(rec.Channel)
	if !found && rec.Signal != SignalOpen {
		// OPEN is the one signal that may legitimately race the
		// registry (the channel was just registered by the creator);
		// every other signal must resolve.
		return EventError, rec.Channel, ErrUnknownSignal
	}

	if ch != nil {
		// num_kevents (spec §3) counts drains on the thread servicing
		// cq, which is whichever endpoint does not own cq as its
		// outbound signalling lane.
		switch cq {
		case ch.master.control:
			ch.worker.numKevents.Add(1)
		case ch.worker.control:
			ch.master.numKevents.Add(1)
		}
	}

	switch rec.Signal {
	case SignalError:
		return EventError, rec.Channel, nil

	case SignalDataToWorker:
		return EventDataReadyWorker, rec.Channel, nil

	case SignalDataFromWorker:
		return EventDataReadyReceiver, rec.Channel, nil

	case SignalOpen:
		return EventOpen, rec.Channel, nil

	case SignalClose:
		return EventClose, rec.Channel, nil

	case SignalDataDoneWorker:
		s.maybeResignal(ch, rec)
		return EventDataReadyReceiver, rec.Channel, nil

	case SignalWorkerSleeping:
		s.maybeResignal(ch, rec)
		return EventNoop, rec.Channel, nil

	default:
		return EventError, rec.Channel, ErrUnknownSignal
	}
}

// maybeResignal implements the shared re-signal rule used by both
// DATA_DONE_WORKER and WORKER_SLEEPING (spec §4.8): if the acked sequence
// trails the master's current sequence, the master has pushed work the
// worker has not yet seen, so it re-signals DATA_TO_WORKER unconditionally
// (bypassing the elision heuristic — this is the lost-wakeup recovery
// path, spec §8 property 5) and counts it in num_resignals, in addition
// to the num_signals increment every emitted signal makes.
func (s *ControlService) maybeResignal(ch *Channel, rec ControlRecord) {
	if ch == nil {
		return
	}
	if rec.Ack >= ch.master.sequence.Load() {
		return
	}
	if err := ch.emitSignal(&ch.master, &ch.worker, ch.now(), SignalDataToWorker); err == nil {
		ch.master.numResignals.Add(1)
	}
}

// ServiceKevent drains every pending record from cq, translating each and
// invoking handle. It stops at the first EventEmpty, mirroring the
// spec §6 contract for service_kevent: "if zero events remain it returns
// a sentinel" — here, it simply returns having delivered everything there
// was to deliver.
func (s *ControlService) ServiceKevent(cq ControlQueue, handle func(Event, ChannelRef, error)) {
	for {
		event, ref, err := s.Service(cq)
		if event == EventEmpty {
			return
		}
		handle(event, ref, err)
	}
}
