package iochannel

// Message is passed through a bulk lane between master and worker. The
// payload is opaque to the channel; the channel reads and writes only the
// framing fields below. Messages are allocated and freed externally — the
// channel neither allocates nor frees them.
type Message struct {
	// Payload is opaque application data.
	Payload any

	// Sequence is this message's position in its direction's sequence
	// space, assigned by the channel before the message is pushed.
	Sequence uint64

	// Ack is the sender's endpoint.ack at the time of send: the highest
	// sequence number the sender has observed from its peer.
	Ack uint64

	// When is the send timestamp (Clock.NowNano at send time).
	When int64

	// ProcessingTime and CPUTime are populated on reply messages only,
	// and feed the channel's aggregate accounting (§4.1).
	ProcessingTime int64
	CPUTime        int64
}

// Status is the outcome of a send operation.
type Status int

const (
	// StatusOK indicates the message was queued for the peer.
	StatusOK Status = iota
	// StatusOverload indicates the bulk lane was full; the message was
	// not queued and sequence was not advanced.
	StatusOverload
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusOverload:
		return "Overload"
	default:
		return "Unknown"
	}
}
