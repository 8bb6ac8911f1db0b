//go:build linux

package vega

import "github.com/vegaruntime/vega/io/uring"

// pollIoUringIfInitialized drains whatever completions are already
// available on the calling thread's io_uring pump, if this thread has
// ever constructed one. It never blocks and never constructs a pump
// itself — a thread that has done no io_uring work has nothing to poll.
func pollIoUringIfInitialized() int {
	p := uring.CurrentIfInitialized()
	if p == nil {
		return 0
	}
	return p.Poll()
}

// releaseIoUringForThisThread tears down the calling thread's io_uring
// pump, if it has one. Called as a worker or RunBlocking goroutine is
// about to give up its OS thread pinning.
func releaseIoUringForThisThread() {
	uring.Release()
}
