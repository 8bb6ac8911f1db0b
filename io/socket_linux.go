//go:build linux

package io

import (
	"sync"
	"unsafe"

	"github.com/pawelgaczynski/giouring"
	"golang.org/x/sys/unix"

	"github.com/vegaruntime/vega"
	"github.com/vegaruntime/vega/io/uring"
)

// Inet4StreamSocket is an IPv4 TCP socket whose Connect/Accept/Read/Write
// operations run through the calling OS thread's io_uring pump and return
// promises instead of blocking. Bind and Listen are synchronous — both are
// single, non-blocking syscalls with no completion to wait on.
type Inet4StreamSocket struct {
	mu     sync.Mutex
	fd     int
	local  Inet4Address
	closed bool
}

// NewInet4StreamSocket creates a non-blocking IPv4 TCP socket.
func NewInet4StreamSocket() (*Inet4StreamSocket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, socketOpError("socket", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, socketOpError("setnonblock", err)
	}
	return &Inet4StreamSocket{fd: fd}, nil
}

func socketOpError(op string, err error) error {
	return opError(op, "", err)
}

// Bind binds the socket to a local address.
func (s *Inet4StreamSocket) Bind(addr Inet4Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := unix.Bind(s.fd, addr.toSockaddr()); err != nil {
		return opError("bind", addr.String(), err)
	}
	s.local = addr
	return nil
}

// Listen marks the socket as a passive listener with the given backlog.
func (s *Inet4StreamSocket) Listen(backlog int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := unix.Listen(s.fd, backlog); err != nil {
		return opError("listen", s.local.String(), err)
	}
	return nil
}

// Connect establishes a connection to addr.
func (s *Inet4StreamSocket) Connect(addr Inet4Address) *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		fd := s.fd
		s.mu.Unlock()

		pump, err := uring.Current()
		if err != nil {
			return err
		}
		sa := addr.toSockAddrIn()
		ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
			sqe.PrepareConnect(fd, uintptr(unsafe.Pointer(&sa)), uint64(unsafe.Sizeof(sa)))
		})
		if err != nil {
			return err
		}
		res := <-pump.SubmitAndWait(ticket)
		if res.Err != nil {
			return opError("connect", addr.String(), res.Err)
		}
		return nil
	})
}

// Accept waits for a new connection and returns it as a fresh socket.
func (s *Inet4StreamSocket) Accept() *vega.Promise[*Inet4StreamSocket] {
	return vega.Go(func(aw *vega.Awaiter) (*Inet4StreamSocket, error) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, ErrClosed
		}
		fd := s.fd
		s.mu.Unlock()

		pump, err := uring.Current()
		if err != nil {
			return nil, err
		}
		var raw unix.RawSockaddrAny
		addrLen := uint32(unsafe.Sizeof(raw))
		ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
			sqe.PrepareAccept(fd, uintptr(unsafe.Pointer(&raw)), uint64(uintptr(unsafe.Pointer(&addrLen))), 0)
		})
		if err != nil {
			return nil, err
		}
		res := <-pump.SubmitAndWait(ticket)
		if res.Err != nil {
			return nil, opError("accept", s.local.String(), res.Err)
		}
		child := &Inet4StreamSocket{fd: res.N}
		return child, nil
	})
}

// AcceptLoop repeatedly accepts connections and hands each to handle on
// its own goroutine until Accept fails. The returned promise resolves when
// Accept reports ErrClosed and rejects with any other Accept error. A
// supplemental convenience beyond the literal Accept contract, for the
// common "run a server" case.
func (s *Inet4StreamSocket) AcceptLoop(handle func(conn *Inet4StreamSocket)) *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		for {
			conn, err := vega.AwaitIn(aw, s.Accept())
			if err != nil {
				if err == ErrClosed {
					return nil
				}
				return err
			}
			go handle(conn)
		}
	})
}

// readSome issues a single recv and returns however many bytes the kernel
// handed back, which may be fewer than len(buf).
func (s *Inet4StreamSocket) readSome(buf []byte) *vega.Promise[int] {
	return vega.Go(func(aw *vega.Awaiter) (int, error) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return 0, ErrClosed
		}
		fd := s.fd
		s.mu.Unlock()

		pump, err := uring.Current()
		if err != nil {
			return 0, err
		}
		if len(buf) == 0 {
			return 0, nil
		}
		ptr := unsafe.Pointer(&buf[0])
		ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
			sqe.PrepareRecv(fd, uintptr(ptr), uint32(len(buf)), 0)
		})
		if err != nil {
			return 0, err
		}
		res := <-pump.SubmitAndWait(ticket)
		if res.Err != nil {
			return 0, opError("read", "", res.Err)
		}
		return res.N, nil
	})
}

// writeSome issues a single send and returns however many bytes the kernel
// accepted, which may be fewer than len(buf).
func (s *Inet4StreamSocket) writeSome(buf []byte) *vega.Promise[int] {
	return vega.Go(func(aw *vega.Awaiter) (int, error) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return 0, ErrClosed
		}
		fd := s.fd
		s.mu.Unlock()

		pump, err := uring.Current()
		if err != nil {
			return 0, err
		}
		if len(buf) == 0 {
			return 0, nil
		}
		ptr := unsafe.Pointer(&buf[0])
		ticket, err := pump.GetSQE(func(sqe *giouring.SubmissionQueueEntry) {
			sqe.PrepareSend(fd, uintptr(ptr), uint32(len(buf)), 0)
		})
		if err != nil {
			return 0, err
		}
		res := <-pump.SubmitAndWait(ticket)
		if res.Err != nil {
			return 0, opError("write", "", res.Err)
		}
		return res.N, nil
	})
}

// Read fills buf completely, looping over short reads, and rejects with
// ErrClosed if the peer closes the connection (a zero-byte recv) before
// buf is full.
func (s *Inet4StreamSocket) Read(buf []byte) *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		for len(buf) > 0 {
			n, err := vega.AwaitIn(aw, s.readSome(buf))
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrClosed
			}
			buf = buf[n:]
		}
		return nil
	})
}

// Write sends buf completely, looping over short writes.
func (s *Inet4StreamSocket) Write(buf []byte) *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		for len(buf) > 0 {
			n, err := vega.AwaitIn(aw, s.writeSome(buf))
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrShortWrite
			}
			buf = buf[n:]
		}
		return nil
	})
}

// IsValid reports whether the socket has not yet been closed.
func (s *Inet4StreamSocket) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close closes the socket. Operations already in flight complete with an
// io_uring-reported error rather than being cancelled.
func (s *Inet4StreamSocket) Close() *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil
		}
		s.closed = true
		fd := s.fd
		s.mu.Unlock()
		return unix.Close(fd)
	})
}
