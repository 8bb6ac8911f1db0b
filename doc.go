// Package vega is an asynchronous runtime built on a JavaScript-style promise
// abstraction, a multi-worker task scheduler, and (on Linux) a thread-local
// io_uring completion pump.
//
// Goroutines stand in for the coroutines of the originating design: a
// function started with [Go] runs to completion on its own goroutine and
// settles the [Promise] it returns; [Await] (and, from inside a [Go] body,
// [AwaitIn]) block the calling goroutine until a promise settles, mirroring
// co_await's suspend/resume pair without requiring stackful coroutines.
package vega
