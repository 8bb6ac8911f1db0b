package vega

import "fmt"

// Void is the result type of promises that carry no value, standing in for
// C++'s Promise<void>.
type Void = struct{}

// Promise is a handle onto a shared PromiseState[T]. Copying a Promise
// copies the handle, not the state — every copy observes the same
// settlement.
type Promise[T any] struct {
	state *PromiseState[T]
}

func newPromise[T any]() *Promise[T] {
	return &Promise[T]{state: &PromiseState[T]{scheduler: currentScheduler(), traceID: newTraceID()}}
}

// Status reports the promise's current lifecycle state.
func (p *Promise[T]) Status() Status { return p.state.Status() }

// TraceID returns a short, stable id for correlating this promise across
// worker-pool debug output. It carries no meaning beyond identity.
func (p *Promise[T]) TraceID() string { return p.state.traceID }

// Resolve creates an already-fulfilled promise.
func Resolve[T any](v T) *Promise[T] {
	p := newPromise[T]()
	p.state.resolve(v)
	return p
}

// Reject creates an already-rejected promise.
func Reject[T any](err error) *Promise[T] {
	p := newPromise[T]()
	p.state.reject(err)
	return p
}

// Create builds a promise whose settlement is controlled by the executor,
// which is invoked synchronously with resolve/reject callbacks bound to the
// new promise's state, mirroring the JavaScript `new Promise(executor)`
// idiom spec.md's create() is named after.
func Create[T any](executor func(resolve func(T), reject func(error))) *Promise[T] {
	p := newPromise[T]()
	executor(p.state.resolve, p.state.reject)
	return p
}

// panicError wraps a recovered panic value as an error, the same way an
// uncaught C++ exception escaping a coroutine body becomes the promise's
// rejection reason.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("vega: panic: %w", err)
	}
	return fmt.Errorf("vega: panic: %v", r)
}

// Awaiter is handed to the body of a Go/GoVoid coroutine so that it can
// await sub-promises and, the first time it does, lazily adopt the
// scheduler of whatever it awaited — the Go analogue of a coroutine frame
// inheriting its awaitee's scheduler when it has none of its own yet.
type Awaiter struct {
	self scheduled
}

type scheduled interface {
	getScheduler() *Scheduler
	setSchedulerIfNil(*Scheduler)
}

// Go starts fn on a new goroutine and returns a promise that settles with
// fn's result. fn runs to completion uninterrupted except where it calls
// AwaitIn; a panic inside fn rejects the returned promise instead of
// crashing the process, the way an uncaught exception unwinding a coroutine
// settles that coroutine's promise in the source design.
func Go[T any](fn func(aw *Awaiter) (T, error)) *Promise[T] {
	p := newPromise[T]()
	aw := &Awaiter{self: p.state}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.state.reject(panicError(r))
			}
		}()
		v, err := fn(aw)
		if err != nil {
			p.state.reject(err)
		} else {
			p.state.resolve(v)
		}
	}()
	return p
}

// GoVoid is Go specialized to a void-returning coroutine body.
func GoVoid(fn func(aw *Awaiter) error) *Promise[Void] {
	return Go(func(aw *Awaiter) (Void, error) {
		return Void{}, fn(aw)
	})
}

// Await blocks the calling goroutine until p settles and returns its value
// or error. If p has already settled, Await returns immediately.
func Await[T any](p *Promise[T]) (T, error) {
	done := make(chan struct{})
	p.state.addContinuation(func() { close(done) })
	<-done
	status, v, err := p.state.settled()
	if status == Rejected {
		return v, err
	}
	return v, nil
}

// AwaitIn is Await called from inside a Go/GoVoid coroutine body: aw's own
// promise adopts p's scheduler if it does not already have one, then
// blocks exactly as Await does. Pass the *Awaiter handed to the coroutine
// body; a nil aw degrades to a plain Await.
func AwaitIn[T any](aw *Awaiter, p *Promise[T]) (T, error) {
	if aw != nil && aw.self.getScheduler() == nil {
		aw.self.setSchedulerIfNil(p.state.getScheduler())
	}
	return Await(p)
}
