package iochannel

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// SignalStormLogger is an optional, off-hot-path diagnostic that warns
// when a channel's signal rate crosses an operator-configured budget. It
// deliberately sits outside the elision decision in signal.go (spec
// §4.6's threshold/interval rule must stay exact and deterministic for
// the property tests in spec §8 to hold); this is purely observability,
// grounded on catrate's per-category sliding-window limiter.
type SignalStormLogger struct {
	limiter *catrate.Limiter
	logger  Logger
}

// NewSignalStormLogger builds a SignalStormLogger with the given
// sliding-window budget (e.g. {time.Second: 10_000} to flag any channel
// that signals more than 10,000 times in a one-second window).
func NewSignalStormLogger(budget map[time.Duration]int, logger Logger) *SignalStormLogger {
	if logger == nil {
		logger = defaultLogger()
	}
	return &SignalStormLogger{
		limiter: catrate.NewLimiter(budget),
		logger:  logger,
	}
}

// Observe records one signal emitted on the channel identified by ref.
// Channels do not call it themselves; each call counts as one signal. It
// categorizes by the channel's ref, so each channel gets its own
// independent budget.
func (d *SignalStormLogger) Observe(ref ChannelRef, role Role, signal SignalType) {
	if _, ok := d.limiter.Allow(ref); ok {
		return
	}
	d.logger.Warning().
		Uint64(`channel`, uint64(ref)).
		Str(`role`, role.String()).
		Str(`signal`, signal.String()).
		Log(`channel is signalling its peer faster than the configured budget`)
}
