// Package uring wraps a single io_uring instance as a thread-local
// completion pump: one Pump per OS thread, leased submission entries
// correlated to their eventual completion by an opaque ticket rather than
// by passing pointers through sqe/cqe user_data.
//
// A Pump's methods are safe for concurrent use: its ring is driven by the
// Pump's own goroutine, pinned to its OS thread with runtime.LockOSThread,
// and callers only hand it requests and wait on tickets. Current keeps one
// Pump per OS thread, constructed lazily the first time that thread asks
// for one.
package uring
