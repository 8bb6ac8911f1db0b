package io

import (
	"errors"
	"net"
)

// ErrClosed is returned once a File or Inet4StreamSocket has been closed
// and an operation is attempted on it, the same sentinel-plus-net.OpError
// layering vlourme-rio/errors.go and dialer_linux.go use at their public
// surface.
var ErrClosed = errors.New("io: closed")

// ErrShortWrite is returned when the backend accepted fewer bytes than
// were given to Write and no further write makes progress (an io_uring
// zero-length completion with room still remaining).
var ErrShortWrite = errors.New("io: short write")

func opError(op, addr string, err error) error {
	return &net.OpError{Op: op, Net: "tcp4", Addr: simpleAddr(addr), Err: err}
}

type simpleAddr string

func (a simpleAddr) Network() string { return "tcp4" }
func (a simpleAddr) String() string  { return string(a) }
