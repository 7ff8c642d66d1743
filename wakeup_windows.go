//go:build windows

package iochannel

import "errors"

// errWakeFDUnsupported is returned by platform-specific wakeup
// constructors on Windows, where there is no eventfd/pipe equivalent
// usable as a pollable descriptor outside of IOCP. Hosts on Windows
// should use the default [chanWakeup] instead, or post directly to their
// own IOCP handle the way the teacher's submitGenericWakeup does.
var errWakeFDUnsupported = errors.New("iochannel: fd-based wakeup unsupported on windows; use NewChanWakeup")

// NewEventFDWakeup is unavailable on Windows.
func NewEventFDWakeup() (Wakeup, error) {
	return nil, errWakeFDUnsupported
}

// NewPipeWakeup is unavailable on Windows.
func NewPipeWakeup() (Wakeup, error) {
	return nil, errWakeFDUnsupported
}
