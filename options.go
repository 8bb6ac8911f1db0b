package vega

import "time"

type options struct {
	workers      int
	pollInterval time.Duration
	idleSleep    time.Duration
	onUnhandled  func(error)
}

func defaultOptions() *options {
	return &options{
		workers:      0,
		pollInterval: 5 * time.Millisecond,
		idleSleep:    100 * time.Microsecond,
	}
}

// Option configures a Scheduler at construction time, the same functional
// options shape vlourme-rio/pkg/iouring/aio and vlourme-rio/option.go use
// for their own constructors.
type Option func(*options)

// WithWorkers sets the number of background worker goroutines the
// scheduler starts. 0 (the default) runs every regular task inline on the
// drain loop's own goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.workers = n
		}
	}
}

// WithWorkerPollInterval sets how long an idle worker sleeps after finding
// neither a permit nor io_uring completions before checking again.
func WithWorkerPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithIdleSleep sets how long the drain loop sleeps after a pass that
// dispatched nothing and reaped no tracked promises.
func WithIdleSleep(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleSleep = d
		}
	}
}

// WithUnhandledRejectionHook installs a callback that Track invokes with
// the error of every tracked promise that settles rejected, whether or not
// anything else awaits that promise (RunBlockingAsync tracks its own
// promise, so that rejection reaches the hook as well). Unset by default —
// spec.md leaves this as an optional hook rather than a mandated surface.
func WithUnhandledRejectionHook(fn func(error)) Option {
	return func(o *options) { o.onUnhandled = fn }
}
