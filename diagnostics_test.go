package iochannel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/joeycumines/stumpy"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(
		stumpy.WithWriter(buf),
		stumpy.WithTimeField(``),
	))
}

func TestSignalStormLoggerWarnsOverBudget(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	d := NewSignalStormLogger(map[time.Duration]int{time.Minute: 1}, logger)

	d.Observe(1, RoleToWorker, SignalDataToWorker)
	d.Observe(1, RoleToWorker, SignalDataToWorker)

	if !strings.Contains(buf.String(), "faster than the configured budget") {
		t.Fatalf("expected a warning once the budget is exceeded, got log: %s", buf.String())
	}
}

func TestSignalStormLoggerSilentUnderBudget(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	d := NewSignalStormLogger(map[time.Duration]int{time.Minute: 1000}, logger)

	d.Observe(1, RoleToWorker, SignalDataToWorker)

	if buf.Len() != 0 {
		t.Fatalf("expected no log output under budget, got: %s", buf.String())
	}
}

func TestSignalStormLoggerDefaultsToPackageLogger(t *testing.T) {
	d := NewSignalStormLogger(map[time.Duration]int{time.Minute: 1}, nil)
	if d.logger == nil {
		t.Fatal("expected NewSignalStormLogger(nil) to fall back to the package default logger")
	}
}
