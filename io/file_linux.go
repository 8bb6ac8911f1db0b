//go:build linux

package io

import (
	"os"
	"unsafe"

	"github.com/pawelgaczynski/giouring"
	"github.com/vegaruntime/vega/io/uring"
)

// uringFileBackend drives reads and writes through the calling OS
// thread's io_uring pump. Each call leases one SQE, submits it, and blocks
// the coroutine goroutine (not the pump's owning thread) on the
// completion channel — the same shape pkg/ring/prepare.go's
// Receive/Send helpers use, generalized from Ring's Operation/channel pair
// to the ticket-based Pump.
type uringFileBackend struct {
	f *os.File
}

func openBackend(path string, mode Mode) (FileBackend, error) {
	stream, err := openStream(path, mode)
	if err != nil {
		return nil, err
	}
	if _, perr := uring.Current(); perr != nil {
		return stream, nil
	}
	return &uringFileBackend{f: stream.f}, nil
}

func (b *uringFileBackend) ReadAt(buf []byte, offset int64) (int, error) {
	pump, err := uring.Current()
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}
	fd := int(b.f.Fd())
	ptr := unsafe.Pointer(&buf[0])
	ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
		sqe.PrepareRead(fd, uintptr(ptr), uint32(len(buf)), uint64(offset))
	})
	if err != nil {
		return 0, err
	}
	res := <-pump.SubmitAndWait(ticket)
	return res.N, res.Err
}

func (b *uringFileBackend) WriteAt(buf []byte, offset int64) (int, error) {
	pump, err := uring.Current()
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}
	fd := int(b.f.Fd())
	ptr := unsafe.Pointer(&buf[0])
	ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
		sqe.PrepareWrite(fd, uintptr(ptr), uint32(len(buf)), uint64(offset))
	})
	if err != nil {
		return 0, err
	}
	res := <-pump.SubmitAndWait(ticket)
	return res.N, res.Err
}

// Close is a plain synchronous close; os.File owns the fd lifecycle.
func (b *uringFileBackend) Close() error {
	return b.f.Close()
}

func (b *uringFileBackend) Type() BackendType { return IoUring }
