//go:build linux

package iochannel

import (
	"golang.org/x/sys/unix"
)

// eventFDWakeup is a [Wakeup] backed by a Linux eventfd, for hosts that
// integrate the channel with their own epoll-based event loop rather than
// the default [chanWakeup]. Grounded on the teacher's createWakeFd /
// drainWakeUpPipe pair for Linux.
type eventFDWakeup struct {
	fd int
}

// NewEventFDWakeup creates an eventfd-backed wakeup primitive. The
// returned fd is suitable for registration with epoll (EPOLLIN).
func NewEventFDWakeup() (*eventFDWakeup, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &eventFDWakeup{fd: fd}, nil
}

// FD returns the underlying eventfd, for epoll registration.
func (w *eventFDWakeup) FD() int { return w.fd }

func (w *eventFDWakeup) Wake() error {
	var buf [8]byte
	buf[7] = 1
	_, err := unix.Write(w.fd, buf[:])
	if err == unix.EAGAIN {
		// The eventfd counter would overflow: wakes are already
		// pending delivery. Coalesced, as the spec expects of kq.
		return nil
	}
	return err
}

// Drain resets the eventfd counter to zero, consuming any pending wakes.
func (w *eventFDWakeup) Drain() error {
	var buf [8]byte
	_, err := unix.Read(w.fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (w *eventFDWakeup) Close() error {
	return unix.Close(w.fd)
}
