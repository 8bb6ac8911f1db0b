//go:build !linux

package vega

// pollIoUringIfInitialized is a no-op outside Linux; the io_uring pump is
// Linux-only.
func pollIoUringIfInitialized() int { return 0 }

func releaseIoUringForThisThread() {}
