package vega

import "errors"

// ErrSchedulerStopped names the condition of a Scheduler that has been
// shut down. No Scheduler method returns it: AddTask, RunBlocking and
// RunBlockingAsync called after Shutdown do not fail with it.
var ErrSchedulerStopped = errors.New("vega: scheduler stopped")

// ErrAlreadyRunning is returned by RunBlocking/RunBlockingAsync when the
// scheduler's drain loop is already active on another goroutine.
var ErrAlreadyRunning = errors.New("vega: scheduler already running")
