package iochannel

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logging surface held by each channel (see WithLogger and
// SetLogger) and written to by [SignalStormLogger]. Channel operations
// themselves (signalling, overload, the close handshake, protocol
// violations) write no log lines. It is a thin alias over
// logiface's generic logger so callers can plug in whatever backend
// logiface supports (stumpy, zerolog, logrus, slog, ...) without this
// package depending on a concrete one beyond its own default.
type Logger = *logiface.Logger[*stumpy.Event]

var (
	// globalLogger mirrors the teacher's package-level
	// SetStructuredLogger/getGlobalLogger pattern in logging.go: a
	// package-global default, protected by a RWMutex. A Channel reads it
	// once, at construction, so a swap via SetLogger affects channels
	// created afterwards, not existing ones.
	globalLogger struct {
		sync.RWMutex
		logger Logger
	}
)

func init() {
	globalLogger.logger = stumpy.L.New()
}

// SetLogger sets the package-wide default [Logger] used by channels
// created after the call that were not given an explicit WithLogger
// option.
func SetLogger(logger Logger) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = logger
}

// defaultLogger returns the current package-wide default logger.
func defaultLogger() Logger {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	return globalLogger.logger
}
