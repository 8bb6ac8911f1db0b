package io

import (
	"sync"

	"github.com/vegaruntime/vega"
)

// File is an asynchronous file handle. Read/Write/Close each start a
// coroutine (vega.Go) that drives the underlying FileBackend and settle
// the returned promise with its result, so a caller that never awaits a
// File operation never blocks.
type File struct {
	mu          sync.Mutex
	backend     FileBackend
	readOffset  int64
	writeOffset int64
	closed      bool
}

// Open opens path with the given mode, preferring the io_uring-backed
// backend on Linux and falling back to a synchronous one everywhere else,
// or if the pump could not be constructed.
func Open(path string, mode Mode) (*File, error) {
	backend, err := openBackend(path, mode)
	if err != nil {
		return nil, err
	}
	return &File{backend: backend}, nil
}

// cursorOffset is the sentinel spec.md §4.5 names for "use the backend's
// internal cursor and advance it by the returned byte count" rather than
// an explicit offset.
const cursorOffset int64 = -1

// Read reads up to len(buf) bytes starting at offset, or the file's own
// read cursor if offset is omitted or -1, advancing that cursor by the
// number of bytes actually read only when the cursor was the one used.
// Partial reads are reported as-is; a short read is the caller's
// responsibility, not an error.
func (f *File) Read(buf []byte, offset ...int64) *vega.Promise[int] {
	want := cursorOffset
	if len(offset) > 0 {
		want = offset[0]
	}
	return vega.Go(func(aw *vega.Awaiter) (int, error) {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return 0, ErrClosed
		}
		backend := f.backend
		usingCursor := want == cursorOffset
		off := want
		if usingCursor {
			off = f.readOffset
		}
		f.mu.Unlock()

		n, err := backend.ReadAt(buf, off)
		if n > 0 && usingCursor {
			f.mu.Lock()
			f.readOffset += int64(n)
			f.mu.Unlock()
		}
		return n, err
	})
}

// Write writes buf starting at offset, or the file's own write cursor if
// offset is omitted or -1, advancing that cursor by the number of bytes
// actually written only when the cursor was the one used. Partial writes
// are reported as-is; a short write is the caller's responsibility, not
// an error (matching spec.md §4.5 and the original StreamFile::write).
func (f *File) Write(buf []byte, offset ...int64) *vega.Promise[int] {
	want := cursorOffset
	if len(offset) > 0 {
		want = offset[0]
	}
	return vega.Go(func(aw *vega.Awaiter) (int, error) {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return 0, ErrClosed
		}
		backend := f.backend
		usingCursor := want == cursorOffset
		off := want
		if usingCursor {
			off = f.writeOffset
		}
		f.mu.Unlock()

		n, err := backend.WriteAt(buf, off)
		if n > 0 && usingCursor {
			f.mu.Lock()
			f.writeOffset += int64(n)
			f.mu.Unlock()
		}
		return n, err
	})
}

// BackendType reports which FileBackend implementation this File is
// actually using, so callers can assert the io_uring path was taken on
// platforms where it's expected rather than silently falling back.
func (f *File) BackendType() BackendType {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return None
	}
	return f.backend.Type()
}

// Close releases the underlying backend. Subsequent Read/Write calls
// settle rejected with ErrClosed.
func (f *File) Close() *vega.Promise[vega.Void] {
	return vega.GoVoid(func(aw *vega.Awaiter) error {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return nil
		}
		f.closed = true
		backend := f.backend
		f.mu.Unlock()
		return backend.Close()
	})
}
