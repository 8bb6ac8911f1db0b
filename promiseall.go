package vega

import (
	"sync"
	"sync/atomic"
)

// Input normalizes the three shapes promiseAll's source accepts — an
// already-created promise, a plain value-producing function, or a
// promise-producing function — into one value. Go generics can't fold a
// heterogeneous argument pack the way the source's variadic template does,
// so callers build a homogeneous []Input[T] (via FromPromise/FromValueFunc/
// FromPromiseFunc) and pass it to All; AllVoid instead takes a
// heterogeneous list of anything with a settled status, for the
// void/mixed-type case spec.md's Design Notes call out explicitly.
type Input[T any] struct {
	promise *Promise[T]
	valueFn func() T
	asyncFn func() *Promise[T]
}

// FromPromise wraps an existing promise as an All input.
func FromPromise[T any](p *Promise[T]) Input[T] { return Input[T]{promise: p} }

// FromValueFunc wraps a plain value-producing function, equivalent to
// resolving immediately with its result.
func FromValueFunc[T any](f func() T) Input[T] { return Input[T]{valueFn: f} }

// FromPromiseFunc wraps a function that itself returns a promise, invoked
// once to obtain it.
func FromPromiseFunc[T any](f func() *Promise[T]) Input[T] { return Input[T]{asyncFn: f} }

func (in Input[T]) toPromise() *Promise[T] {
	switch {
	case in.promise != nil:
		return in.promise
	case in.asyncFn != nil:
		return in.asyncFn()
	case in.valueFn != nil:
		return Resolve(in.valueFn())
	default:
		var zero T
		return Resolve(zero)
	}
}

// All fans in a homogeneous list of inputs: it resolves with every value in
// input order once all have fulfilled, or rejects with whichever rejection
// observes the transition to rejected first — first-rejection-wins, decided
// with a single CAS so concurrent rejections can't race each other into
// the result. An empty input list resolves immediately with an empty
// slice.
func All[T any](inputs ...Input[T]) *Promise[[]T] {
	result := newPromise[[]T]()
	n := len(inputs)
	if n == 0 {
		result.state.resolve([]T{})
		return result
	}

	values := make([]T, n)
	var valuesMu sync.Mutex
	var remaining atomic.Int64
	remaining.Store(int64(n))
	var rejected atomic.Bool

	for i, in := range inputs {
		i := i
		p := in.toPromise()
		p.state.addContinuation(func() {
			status, v, err := p.state.settled()
			if status == Rejected {
				if rejected.CompareAndSwap(false, true) {
					result.state.reject(err)
				}
				return
			}
			if rejected.Load() {
				return
			}
			valuesMu.Lock()
			values[i] = v
			valuesMu.Unlock()
			if remaining.Add(-1) == 0 && !rejected.Load() {
				out := make([]T, n)
				valuesMu.Lock()
				copy(out, values)
				valuesMu.Unlock()
				result.state.resolve(out)
			}
		})
	}
	return result
}

// AsSettleInfo adapts a Promise[T] for any T into the settleInfo AllVoid
// accepts, type-erasing its value the same way the source's
// promiseAll<void> branch discards individual results.
func AsSettleInfo[T any](p *Promise[T]) settleInfo { return p.state }

// AllVoid fans in a heterogeneous or all-void list of awaitables and
// resolves with no value once every one of them has settled successfully,
// or rejects with the first rejection observed — the branch of promiseAll
// spec.md's Design Notes describe for N==0, mixed types, or void results,
// where a homogeneous []T has no sensible representation.
func AllVoid(inputs ...settleInfo) *Promise[Void] {
	result := newPromise[Void]()
	n := len(inputs)
	if n == 0 {
		result.state.resolve(Void{})
		return result
	}

	var remaining atomic.Int64
	remaining.Store(int64(n))
	var rejected atomic.Bool

	for _, in := range inputs {
		in := in
		in.OnSettle(func() {
			status, err := in.Settled()
			if status == Rejected {
				if rejected.CompareAndSwap(false, true) {
					result.state.reject(err)
				}
				return
			}
			if rejected.Load() {
				return
			}
			if remaining.Add(-1) == 0 && !rejected.Load() {
				result.state.resolve(Void{})
			}
		})
	}
	return result
}
