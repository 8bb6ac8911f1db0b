//go:build !linux

package vega

import "sync/atomic"

// Non-Linux builds have no portable equivalent of gettid, so the
// per-OS-thread binding degrades to a single process-wide slot. Scheduler
// and Promise semantics stay correct either way — this only affects the
// fast-path/queue-routing optimization in routeContinuations, which is
// free to always queue when it can't reliably tell which thread it's on.
var currentGlobal atomic.Pointer[Scheduler]

func currentScheduler() *Scheduler {
	return currentGlobal.Load()
}

func bindCurrentScheduler(sch *Scheduler) (restore func()) {
	prev := currentGlobal.Swap(sch)
	return func() { currentGlobal.Store(prev) }
}
