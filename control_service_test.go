package iochannel

import "testing"

// TestScenarioS3WorkerSleepingResignals mirrors S3: the worker holds
// unread requests and calls WorkerSleeping; the master's control service,
// seeing an ack behind master.sequence, re-signals DATA_TO_WORKER.
func TestScenarioS3WorkerSleepingResignals(t *testing.T) {
	clock := NewFakeClock(0)
	ch, _ := newTestChannel(clock)

	for i := 0; i < 4; i++ {
		clock.Advance(1)
		msg := &Message{When: clock.NowNano()}
		if status, _, err := ch.SendRequest(msg); status != StatusOK || err != nil {
			t.Fatalf("send %d: status=%v err=%v", i, status, err)
		}
	}
	// The worker receives one request (num_outstanding = 1, ack = 1) and
	// leaves the other 3 unread while master.sequence reaches 4.
	// WorkerSleeping only signals while num_outstanding > 0.
	if _, err := ch.RecvRequest(); err != nil {
		t.Fatalf("RecvRequest: %v", err)
	}

	if err := ch.WorkerSleeping(); err != nil {
		t.Fatalf("WorkerSleeping: %v", err)
	}

	before := ch.Master().NumResignals()

	cs := NewControlServiceWithTable(ch.table)
	event, ref, err := cs.Service(ch.worker.control)
	if err != nil {
		t.Fatalf("Service: %v", err)
	}
	if event != EventNoop {
		t.Fatalf("event = %v, want NOOP", event)
	}
	if ref != ch.Ref() {
		t.Fatalf("ref = %d, want %d", ref, ch.Ref())
	}

	if got := ch.Master().NumResignals(); got != before+1 {
		t.Fatalf("num_resignals = %d, want %d", got, before+1)
	}

	// The master's outbound control lane carries DATA_TO_WORKER records:
	// the first send's signal, then the re-signal behind it.
	rec, ok := ch.master.control.Pop()
	if !ok || rec.Signal != SignalDataToWorker {
		t.Fatalf("expected a DATA_TO_WORKER re-signal, got %+v ok=%v", rec, ok)
	}
}

// TestServiceIncrementsNumKevents covers the spec §3/§6 num_kevents
// counter: each record drained from an endpoint's own control lane
// (identified by lane identity, not by signal type) increments the
// *draining* endpoint's counter, not the sender's.
func TestServiceIncrementsNumKevents(t *testing.T) {
	ch, _ := newTestChannel(nil)
	cs := NewControlServiceWithTable(ch.table)

	if got := ch.Worker().NumKevents(); got != 0 {
		t.Fatalf("worker num_kevents = %d, want 0 before any drain", got)
	}
	ch.master.control.Push(ControlRecord{Signal: SignalDataToWorker, Channel: ch.Ref()})
	if _, _, err := cs.Service(ch.master.control); err != nil {
		t.Fatalf("Service: %v", err)
	}
	if got := ch.Worker().NumKevents(); got != 1 {
		t.Fatalf("worker num_kevents = %d, want 1 (worker drains masterControl)", got)
	}
	if got := ch.Master().NumKevents(); got != 0 {
		t.Fatalf("master num_kevents = %d, want 0 (unaffected by a worker-lane drain)", got)
	}

	ch.worker.control.Push(ControlRecord{Signal: SignalDataFromWorker, Channel: ch.Ref()})
	if _, _, err := cs.Service(ch.worker.control); err != nil {
		t.Fatalf("Service: %v", err)
	}
	if got := ch.Master().NumKevents(); got != 1 {
		t.Fatalf("master num_kevents = %d, want 1 (master drains workerControl)", got)
	}
}

func TestWorkerSleepingNoopWhenNothingOutstanding(t *testing.T) {
	ch, _ := newTestChannel(nil)
	if err := ch.WorkerSleeping(); err != nil {
		t.Fatalf("WorkerSleeping: %v", err)
	}
	if _, ok := ch.worker.control.Pop(); ok {
		t.Fatal("expected no signal when worker.num_outstanding == 0")
	}
}

// TestControlServiceEventTable walks the §4.8 signal→event translation
// table directly against a bare ControlQueue.
func TestControlServiceEventTable(t *testing.T) {
	ch, _ := newTestChannel(nil)
	cs := NewControlServiceWithTable(ch.table)

	cases := []struct {
		signal SignalType
		want   Event
	}{
		{SignalError, EventError},
		{SignalDataToWorker, EventDataReadyWorker},
		{SignalDataFromWorker, EventDataReadyReceiver},
		{SignalOpen, EventOpen},
		{SignalClose, EventClose},
	}

	for _, c := range cases {
		cq := NewControlQueue(1)
		cq.Push(ControlRecord{Signal: c.signal, Channel: ch.Ref()})
		event, _, err := cs.Service(cq)
		if err != nil {
			t.Fatalf("signal %v: unexpected error %v", c.signal, err)
		}
		if event != c.want {
			t.Fatalf("signal %v: event = %v, want %v", c.signal, event, c.want)
		}
	}
}

func TestControlServiceEmptyQueue(t *testing.T) {
	cs := NewControlService()
	cq := NewControlQueue(1)
	event, ref, err := cs.Service(cq)
	if event != EventEmpty || ref != 0 || err != nil {
		t.Fatalf("expected EMPTY/0/nil, got event=%v ref=%d err=%v", event, ref, err)
	}
}

func TestControlServiceUnknownSignal(t *testing.T) {
	ch, _ := newTestChannel(nil)
	cs := NewControlServiceWithTable(ch.table)
	cq := NewControlQueue(1)
	cq.Push(ControlRecord{Signal: SignalType(200), Channel: ch.Ref()})
	event, _, err := cs.Service(cq)
	if event != EventError || err == nil {
		t.Fatalf("expected ERROR event with a non-nil error, got event=%v err=%v", event, err)
	}
}

func TestControlServiceUnresolvedRefIsError(t *testing.T) {
	cs := NewControlService()
	cq := NewControlQueue(1)
	cq.Push(ControlRecord{Signal: SignalClose, Channel: ChannelRef(999999)})
	event, _, err := cs.Service(cq)
	if event != EventError || err == nil {
		t.Fatalf("expected ERROR for an unresolved channel ref, got event=%v err=%v", event, err)
	}
}

func TestServiceKeventDrainsAllRecords(t *testing.T) {
	ch, _ := newTestChannel(nil)
	cs := NewControlServiceWithTable(ch.table)
	cq := NewControlQueue(4)
	cq.Push(ControlRecord{Signal: SignalDataToWorker, Channel: ch.Ref()})
	cq.Push(ControlRecord{Signal: SignalDataFromWorker, Channel: ch.Ref()})

	var events []Event
	cs.ServiceKevent(cq, func(e Event, ref ChannelRef, err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, e)
	})

	if len(events) != 2 {
		t.Fatalf("expected 2 delivered events, got %d", len(events))
	}
	if events[0] != EventDataReadyWorker || events[1] != EventDataReadyReceiver {
		t.Fatalf("unexpected event order: %v", events)
	}
}

// TestControlServiceDataDoneWorkerResignals exercises the other half of the
// shared re-signal rule (§4.8): DATA_DONE_WORKER with a stale ack.
func TestControlServiceDataDoneWorkerResignals(t *testing.T) {
	clock := NewFakeClock(0)
	ch, _ := newTestChannel(clock)

	for i := 0; i < 2; i++ {
		clock.Advance(1)
		ch.SendRequest(&Message{When: clock.NowNano()})
	}

	cq := NewControlQueue(1)
	cq.Push(ControlRecord{Signal: SignalDataDoneWorker, Ack: 0, Channel: ch.Ref()})

	cs := NewControlServiceWithTable(ch.table)
	event, _, err := cs.Service(cq)
	if err != nil {
		t.Fatalf("Service: %v", err)
	}
	if event != EventDataReadyReceiver {
		t.Fatalf("event = %v, want DATA_READY_RECEIVER", event)
	}
	if got := ch.Master().NumResignals(); got != 1 {
		t.Fatalf("num_resignals = %d, want 1", got)
	}
}
