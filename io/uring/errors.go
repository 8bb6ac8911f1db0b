package uring

import "github.com/brickingsoft/errors"

// ErrInit is wrapped with the underlying cause whenever ring creation
// fails, the same errors.Define/errors.From/errors.WithWrap layering
// pkg/ring/error.go uses for its own kind-distinguishing errors.
var ErrInit = errors.Define("uring: failed to initialize io_uring")

// ErrUnsupportedKernel is returned by New when the running kernel is older
// than the minimum this pump requires.
var ErrUnsupportedKernel = errors.Define("uring: kernel too old for io_uring")

// ErrClosed is returned by Pump methods called after Close.
var ErrClosed = errors.Define("uring: pump closed")

// IsUnsupportedKernel reports whether err wraps ErrUnsupportedKernel.
func IsUnsupportedKernel(err error) bool {
	return errors.Is(err, ErrUnsupportedKernel)
}

// IsClosed reports whether err wraps ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
