//go:build linux

package vega

import (
	"sync"

	"golang.org/x/sys/unix"
)

// currentScheduler/setCurrentScheduler model the source design's
// thread_local<Scheduler*>: every goroutine that drives a scheduler's drain
// loop or a worker pins itself to its OS thread with runtime.LockOSThread
// and registers here, the same pinning technique
// pkg/iouring/aio/vortex.go uses for CPU affinity. Keying by the kernel
// thread id rather than goroutine identity is the only stable handle Go
// exposes for "this OS thread", and PromiseState.resolve/reject need this
// lookup without taking a context.Context argument to keep their surface
// matching resolve(v)/reject(err).
var (
	currentMu    sync.RWMutex
	currentByTid = map[int]*Scheduler{}
)

func currentScheduler() *Scheduler {
	tid := unix.Gettid()
	currentMu.RLock()
	defer currentMu.RUnlock()
	return currentByTid[tid]
}

// bindCurrentScheduler registers sch as the current scheduler for the
// calling OS thread and returns a function that restores whatever binding
// was in place before. Callers that rely on the binding (worker loops,
// RunBlocking) must have already called runtime.LockOSThread.
func bindCurrentScheduler(sch *Scheduler) (restore func()) {
	tid := unix.Gettid()
	currentMu.Lock()
	prev, had := currentByTid[tid]
	currentByTid[tid] = sch
	currentMu.Unlock()
	return func() {
		currentMu.Lock()
		if had {
			currentByTid[tid] = prev
		} else {
			delete(currentByTid, tid)
		}
		currentMu.Unlock()
	}
}
