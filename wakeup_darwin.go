//go:build darwin

package iochannel

import (
	"golang.org/x/sys/unix"
)

// pipeWakeup is a [Wakeup] backed by a self-pipe, for hosts that
// integrate the channel with their own kqueue-based event loop. Grounded
// on the teacher's createWakeFd for Darwin (no eventfd on BSD, so a
// non-blocking pipe stands in).
type pipeWakeup struct {
	readFD, writeFD int
}

// NewPipeWakeup creates a self-pipe wakeup primitive. readFD is suitable
// for registration with kqueue (EVFILT_READ).
func NewPipeWakeup() (*pipeWakeup, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, err
		}
	}
	return &pipeWakeup{readFD: fds[0], writeFD: fds[1]}, nil
}

// FD returns the read end, for kqueue registration.
func (w *pipeWakeup) FD() int { return w.readFD }

func (w *pipeWakeup) Wake() error {
	var b [1]byte
	_, err := unix.Write(w.writeFD, b[:])
	if err == unix.EAGAIN {
		// Pipe buffer is full of unread bytes: a wake is already
		// pending, coalesced exactly as kq is specified to behave.
		return nil
	}
	return err
}

// Drain empties the pipe, consuming any pending wakes.
func (w *pipeWakeup) Drain() error {
	var buf [64]byte
	for {
		_, err := unix.Read(w.readFD, buf[:])
		if err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			return err
		}
	}
}

func (w *pipeWakeup) Close() error {
	err1 := unix.Close(w.readFD)
	err2 := unix.Close(w.writeFD)
	if err1 != nil {
		return err1
	}
	return err2
}
