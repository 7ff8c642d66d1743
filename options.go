package iochannel

// channelOptions holds configuration applied by [Option] values, mirroring
// the teacher's loopOptions/LoopOption split in options.go.
type channelOptions struct {
	queueCapacity              int
	signalInterval             int64
	lagThreshold               int64
	ialpha                     int64
	platformElisionRefinement  bool
	debug                      bool
	clock                      Clock
	logger                     Logger
	table                      *channelTable
}

func defaultChannelOptions() channelOptions {
	return channelOptions{
		queueCapacity:             DefaultQueueSize,
		signalInterval:            SignalInterval,
		lagThreshold:              LagThreshold,
		ialpha:                    8,
		platformElisionRefinement: false,
		debug:                     false,
		clock:                     SystemClock(),
		logger:                    defaultLogger(),
		table:                     defaultChannelTable,
	}
}

// Option configures a [Channel] at construction via [NewChannel].
type Option interface {
	apply(*channelOptions)
}

type optionFunc func(*channelOptions)

func (f optionFunc) apply(o *channelOptions) { f(o) }

// WithQueueCapacity sets the bulk-lane capacity for the default
// [BulkQueue] implementation (spec ATOMIC_QUEUE_SIZE). Ignored for a lane
// whose queue is passed to [NewChannel] directly (non-nil toWorker or
// fromWorker).
func WithQueueCapacity(n int) Option {
	return optionFunc(func(o *channelOptions) { o.queueCapacity = n })
}

// WithSignalInterval overrides the default 1ms SIGNAL_INTERVAL tunable.
func WithSignalInterval(nanos int64) Option {
	return optionFunc(func(o *channelOptions) { o.signalInterval = nanos })
}

// WithLagThreshold overrides the default 1000-message ack-lag threshold.
func WithLagThreshold(n int64) Option {
	return optionFunc(func(o *channelOptions) { o.lagThreshold = n })
}

// WithIALPHA overrides the EMA smoothing factor (default 8).
func WithIALPHA(n int64) Option {
	return optionFunc(func(o *channelOptions) { o.ialpha = n })
}

// WithPlatformElisionRefinement enables the §4.6/§9 shortcut that elides
// a signal unconditionally when sequence_at_last_signal > peer.ack,
// relying on the Wakeup primitive to guarantee an un-acked signal is
// still pending delivery. Defaults to off; only enable it for a Wakeup
// implementation you have verified has that coalescing guarantee.
func WithPlatformElisionRefinement(enabled bool) Option {
	return optionFunc(func(o *channelOptions) { o.platformElisionRefinement = enabled })
}

// WithDebug enables the debug-only invariant assertions of spec §3/§7:
// a violated invariant panics instead of silently returning undefined
// behavior.
func WithDebug(enabled bool) Option {
	return optionFunc(func(o *channelOptions) { o.debug = enabled })
}

// WithClock overrides the [Clock] used for timestamps. Tests typically
// supply a [FakeClock].
func WithClock(c Clock) Option {
	return optionFunc(func(o *channelOptions) { o.clock = c })
}

// WithLogger overrides the [Logger] used for this channel's diagnostics,
// independent of the package-wide default set via [SetLogger].
func WithLogger(l Logger) Option {
	return optionFunc(func(o *channelOptions) { o.logger = l })
}

// withChannelTable overrides the [channelTable] used to resolve
// ControlRecord.Channel refs. It is unexported, so only code inside this
// package (e.g. its tests) can isolate channels in their own table.
func withChannelTable(t *channelTable) Option {
	return optionFunc(func(o *channelOptions) { o.table = t })
}
