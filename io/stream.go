package io

import (
	"io"
	"os"
)

// streamBackend is the portable FileBackend used on platforms without an
// io_uring pump, and as File's fallback on Linux if the pump could not be
// constructed (old kernel, exhausted ring registrations). It does real
// synchronous syscalls; File runs them on a throwaway goroutine via
// vega.Go so callers still get a promise back.
type streamBackend struct {
	f *os.File
}

func openStream(path string, mode Mode) (*streamBackend, error) {
	var flags int
	switch {
	case mode.has(Read) && mode.has(Write):
		flags = os.O_RDWR
	case mode.has(Write):
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}
	if mode.has(Write) {
		flags |= os.O_CREATE
	}
	if mode.has(Truncate) {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	return &streamBackend{f: f}, nil
}

func (s *streamBackend) ReadAt(buf []byte, offset int64) (int, error) {
	n, err := s.f.ReadAt(buf, offset)
	if err == io.EOF {
		// Reaching end of file is a short read, not a failure.
		err = nil
	}
	return n, err
}

func (s *streamBackend) WriteAt(buf []byte, offset int64) (int, error) {
	return s.f.WriteAt(buf, offset)
}

func (s *streamBackend) Close() error {
	return s.f.Close()
}

func (s *streamBackend) Type() BackendType { return Stream }
