// Package iochannel implements a bidirectional, thread-safe, low-overhead
// request/reply channel coupling a producer goroutine ("master") with a
// consumer goroutine ("worker").
//
// # Architecture
//
// A [Channel] owns two [Endpoint] values joined by two one-way bulk data
// lanes ([BulkQueue]) and a wakeup lane ([ControlQueue] plus [Wakeup]):
//
//	master --push(req)--> to_worker queue   --pop--> worker
//	master <--pop(rep)--  from_worker queue <--push-- worker
//	       <-- wakeup signals via control lane -->
//
// [Channel.SendRequest] / [Channel.RecvReply] operate the master side;
// [Channel.RecvRequest] / [Channel.SendReply] operate the worker side. Both
// sides apply the signal-elision heuristic in signal.go before waking the
// peer, so that steady-state traffic rarely pays for a wakeup syscall.
//
// # Thread Safety
//
// The channel itself never blocks. [BulkQueue] is single-producer,
// single-consumer per direction; only the thread that owns an endpoint's
// writer role mutates that endpoint's counters and timestamps, so they are
// backed by atomics rather than a mutex. [ControlQueue] may be multi-producer
// when several channels share a consumer thread.
//
// # Open/Close
//
// [Channel.Open] performs the initial handshake: the creator builds the channel with
// the master-side control lane in place, then signals OPEN to the worker's
// control lane. The worker installs its own control handle on receiving
// OPEN via [Channel.InstallWorkerControl]. Either side may initiate the
// two-sided close described in [Channel.CloseMaster] / [Channel.AckCloseWorker].
package iochannel
