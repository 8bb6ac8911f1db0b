//go:build linux

package uring

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Entries is the submission queue depth used for lazily-constructed,
// per-thread pumps. Override before the first call to Current if a
// different depth is needed; it is read without synchronization, so set it
// during program initialization only.
var Entries uint32 = 256

var (
	registryMu sync.Mutex
	registry   = map[int]*Pump{}
)

// Current returns the calling OS thread's Pump, constructing it the first
// time this thread asks for one. Current does not pin the calling
// goroutine to its OS thread: an unpinned caller gets the Pump of whichever
// thread it happens to be running on, which it can use from any goroutine
// since each Pump drives its ring from its own goroutine.
func Current() (*Pump, error) {
	tid := unix.Gettid()
	registryMu.Lock()
	defer registryMu.Unlock()
	if p, ok := registry[tid]; ok {
		return p, nil
	}
	p, err := New(Entries)
	if err != nil {
		return nil, err
	}
	registry[tid] = p
	return p, nil
}

// CurrentIfInitialized returns the calling OS thread's Pump without
// constructing one, or nil if this thread has never called Current. Used
// by a scheduler's own drain loop to opportunistically drain completions
// without paying for a ring it would otherwise never need.
func CurrentIfInitialized() *Pump {
	tid := unix.Gettid()
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[tid]
}

// Release closes and forgets the calling OS thread's Pump, if it has one.
// Call this when a pinned worker goroutine is about to exit.
func Release() {
	tid := unix.Gettid()
	registryMu.Lock()
	p, ok := registry[tid]
	delete(registry, tid)
	registryMu.Unlock()
	if ok {
		_ = p.Close()
	}
}
