// Package io provides File and Inet4StreamSocket: asynchronous wrappers
// whose blocking operations return *vega.Promise values instead of
// blocking the calling goroutine directly. On Linux both are backed by a
// thread-local io_uring pump (package vega/io/uring); everywhere else File
// falls back to a synchronous backend run on its own goroutine, and
// sockets are unsupported, matching the Linux-only scope this module
// carries for asynchronous network I/O.
package io
