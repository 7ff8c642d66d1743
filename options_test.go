package iochannel

import "testing"

func TestDefaultChannelOptions(t *testing.T) {
	o := defaultChannelOptions()
	if o.queueCapacity != DefaultQueueSize {
		t.Errorf("queueCapacity = %d, want %d", o.queueCapacity, DefaultQueueSize)
	}
	if o.signalInterval != SignalInterval {
		t.Errorf("signalInterval = %d, want %d", o.signalInterval, SignalInterval)
	}
	if o.lagThreshold != LagThreshold {
		t.Errorf("lagThreshold = %d, want %d", o.lagThreshold, LagThreshold)
	}
	if o.ialpha != 8 {
		t.Errorf("ialpha = %d, want 8", o.ialpha)
	}
	if o.platformElisionRefinement {
		t.Error("platformElisionRefinement should default to false")
	}
	if o.debug {
		t.Error("debug should default to false")
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultChannelOptions()
	clock := NewFakeClock(0)
	opts := []Option{
		WithQueueCapacity(64),
		WithSignalInterval(500),
		WithLagThreshold(10),
		WithIALPHA(4),
		WithPlatformElisionRefinement(true),
		WithDebug(true),
		WithClock(clock),
	}
	for _, opt := range opts {
		opt.apply(&o)
	}

	if o.queueCapacity != 64 {
		t.Errorf("queueCapacity = %d, want 64", o.queueCapacity)
	}
	if o.signalInterval != 500 {
		t.Errorf("signalInterval = %d, want 500", o.signalInterval)
	}
	if o.lagThreshold != 10 {
		t.Errorf("lagThreshold = %d, want 10", o.lagThreshold)
	}
	if o.ialpha != 4 {
		t.Errorf("ialpha = %d, want 4", o.ialpha)
	}
	if !o.platformElisionRefinement {
		t.Error("expected platformElisionRefinement = true")
	}
	if !o.debug {
		t.Error("expected debug = true")
	}
	if o.clock != Clock(clock) {
		t.Error("expected clock to be set to the fake clock")
	}
}
