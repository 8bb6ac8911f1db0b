package vega

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vegaruntime/vega/internal/queue"
)

// Scheduler owns a regular FIFO task queue, a delayed-task min-heap, an
// optional pool of background workers, and the set of promises it has been
// asked to track to completion. RunBlocking/RunBlockingAsync drain these
// until nothing is left pending, the same "dispatch regular and delayed
// work until the queues and tracked set are empty" loop
// Swind-go-task-runner's TaskScheduler runs, generalized with an io_uring
// poll step on Linux.
type Scheduler struct {
	opts *options

	regular *queue.FIFO
	delayed *queue.Delayed

	trackedMu sync.Mutex
	tracked   map[settleInfo]struct{}

	sema chan struct{}

	activeWorkers atomic.Int64
	stopped       atomic.Bool
	running       atomic.Bool

	workersOnce sync.Once
	workersWG   sync.WaitGroup
	stopCh      chan struct{}
}

// settleInfo is the minimal, type-erased view of a PromiseState that
// AllVoid and the scheduler's tracked-set reaper need — settlement status
// plus a way to be notified of it, without caring what T is.
type settleInfo interface {
	Settled() (Status, error)
	OnSettle(func())
}

// NewScheduler constructs a Scheduler. With no WithWorkers option, all
// regular tasks run inline on whichever goroutine calls RunBlocking.
func NewScheduler(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	s := &Scheduler{
		opts:    o,
		regular: queue.NewFIFO(),
		delayed: queue.NewDelayed(),
		tracked: make(map[settleInfo]struct{}),
		sema:    make(chan struct{}, 1<<20),
		stopCh:  make(chan struct{}),
	}
	return s
}

var (
	defaultSchedulerOnce sync.Once
	defaultScheduler     *Scheduler
)

// DefaultScheduler returns a process-wide, lazily constructed Scheduler
// with no background workers, the Go equivalent of spec.md's
// Scheduler::get() singleton.
func DefaultScheduler() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = NewScheduler()
	})
	return defaultScheduler
}

// GetCurrent returns the scheduler bound to the calling OS thread (see
// bindCurrentScheduler), or nil if none is bound.
func GetCurrent() *Scheduler {
	return currentScheduler()
}

// Stats is a point-in-time snapshot of a scheduler's queues, mirroring
// Swind-go-task-runner's QueuedTaskCount/ActiveTaskCount/DelayedTaskCount.
type Stats struct {
	Queued  int
	Active  int
	Delayed int
	Tracked int
}

func (s *Scheduler) Stats() Stats {
	s.trackedMu.Lock()
	tracked := len(s.tracked)
	s.trackedMu.Unlock()
	return Stats{
		Queued:  s.regular.Len(),
		Active:  int(s.activeWorkers.Load()),
		Delayed: s.delayed.Len(),
		Tracked: tracked,
	}
}

// addTask pushes a regular task and releases one permit so a worker can
// pick it up. The permit is released whether or not a worker pool is
// running, and is dropped if the semaphore's buffer is already full.
func (s *Scheduler) addTask(task func()) {
	s.regular.Push(task)
	select {
	case s.sema <- struct{}{}:
	default:
	}
}

// AddTask is the public surface for addTask, spec.md §6's
// Scheduler::addTask: it enqueues task onto the regular FIFO queue and
// wakes a worker, if any are running, to pick it up.
func (s *Scheduler) AddTask(task func()) {
	s.addTask(task)
}

// shouldQueueTask reports whether a resolve()/reject() firing inline on the
// calling goroutine should instead post its continuations back through
// addTask. Approximated as "there is already other regular work waiting",
// so a long chain of synchronous continuations yields to already-queued
// tasks instead of starving them by recursing arbitrarily deep.
func (s *Scheduler) shouldQueueTask() bool {
	return s.regular.Len() > 0
}

// Track registers p to be waited on by the drain loop: RunBlocking/
// RunBlockingAsync won't return while any tracked promise is still
// pending, the same role Swind-go-task-runner's active-task bookkeeping
// plays for fire-and-forget work.
func (s *Scheduler) Track(p settleInfo) {
	s.trackedMu.Lock()
	s.tracked[p] = struct{}{}
	s.trackedMu.Unlock()
	p.OnSettle(func() {
		if _, err := p.Settled(); err != nil && s.opts.onUnhandled != nil {
			s.opts.onUnhandled(err)
		}
	})
}

func (s *Scheduler) reapTracked() int {
	s.trackedMu.Lock()
	defer s.trackedMu.Unlock()
	reaped := 0
	for p := range s.tracked {
		if status, _ := p.Settled(); status != Pending {
			delete(s.tracked, p)
			reaped++
		}
	}
	return reaped
}

func (s *Scheduler) hasPendingTasks() bool {
	if s.regular.Len() > 0 || s.delayed.Len() > 0 {
		return true
	}
	if s.activeWorkers.Load() > 0 {
		return true
	}
	s.trackedMu.Lock()
	n := len(s.tracked)
	s.trackedMu.Unlock()
	return n > 0
}

func (s *Scheduler) dispatchDelayedTasks() int {
	due := s.delayed.PopDue(time.Now())
	for _, t := range due {
		t.Task()
	}
	return len(due)
}

// pollIoUring opportunistically drains the calling goroutine's OS
// thread's io_uring pump, if one has ever been constructed for it
// (pollIoUringIfInitialized never constructs one itself). Each io_uring
// pump is self-driving — its own goroutine submits and completes its
// ring regardless of which thread issued the operation — so this is an
// optional, lower-latency extra drain pass, not the only thing keeping
// io_uring work moving.
func (s *Scheduler) pollIoUring() int {
	return pollIoUringIfInitialized()
}

// Delay returns a promise that fulfills once d has elapsed, settled on the
// scheduler's own drain-loop goroutine the next time it checks its delayed
// heap — it never fires from a timer goroutine.
func (s *Scheduler) Delay(d time.Duration) *Promise[Void] {
	p := newPromise[Void]()
	p.state.setSchedulerIfNil(s)
	s.delayed.Push(time.Now().Add(d), func() {
		p.state.resolve(Void{})
	})
	return p
}

// SetTimeout runs f after d has elapsed and returns a promise that settles
// once f returns (or rejects if f panics).
func (s *Scheduler) SetTimeout(f func(), d time.Duration) *Promise[Void] {
	return GoVoid(func(aw *Awaiter) error {
		if _, err := AwaitIn(aw, s.Delay(d)); err != nil {
			return err
		}
		f()
		return nil
	})
}

func (s *Scheduler) startWorkers() {
	s.workersOnce.Do(func() {
		for i := 0; i < s.opts.workers; i++ {
			s.workersWG.Add(1)
			go s.workerLoop()
		}
	})
}

func (s *Scheduler) workerLoop() {
	defer s.workersWG.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer releaseIoUringForThisThread()
	restore := bindCurrentScheduler(s)
	defer restore()

	for {
		acquired := false
		select {
		case <-s.sema:
			acquired = true
		default:
		}

		ioWork := s.pollIoUring()

		if s.stopped.Load() && s.regular.Len() == 0 {
			return
		}

		if !acquired && ioWork == 0 {
			select {
			case <-s.stopCh:
				if s.regular.Len() == 0 {
					return
				}
			case <-time.After(s.opts.pollInterval):
			}
			continue
		}

		// Count this worker as active before popping, so the drain loop
		// never sees an empty queue and zero active workers while a popped
		// task has yet to run.
		s.activeWorkers.Add(1)
		task, ok := s.regular.Pop()
		if !ok {
			s.activeWorkers.Add(-1)
			continue
		}
		func() {
			defer s.activeWorkers.Add(-1)
			task()
		}()
	}
}

// drain runs the scheduler's main loop on the calling goroutine until
// hasPendingTasks returns false. Regular tasks run inline here only when
// no worker pool was configured.
func (s *Scheduler) drain() {
	inline := s.opts.workers == 0
	for s.hasPendingTasks() {
		did := s.dispatchDelayedTasks()
		if inline {
			if task, ok := s.regular.Pop(); ok {
				task()
				did++
			}
		}
		did += s.pollIoUring()
		did += s.reapTracked()
		if did == 0 {
			time.Sleep(s.opts.idleSleep)
		}
	}
}

// RunBlocking runs fn as a regular task and drains the scheduler — every
// task fn schedules, directly or transitively, and every promise it or any
// continuation Tracks — until none remain pending.
func (s *Scheduler) RunBlocking(fn func()) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer releaseIoUringForThisThread()
	restore := bindCurrentScheduler(s)
	defer restore()
	if s.opts.workers > 0 {
		s.startWorkers()
	}
	s.addTask(fn)
	s.drain()
	return nil
}

// RunBlockingAsync invokes fn to obtain a promise, tracks it, drains the
// scheduler, and returns the promise's eventual error.
func (s *Scheduler) RunBlockingAsync(fn func() *Promise[Void]) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer releaseIoUringForThisThread()
	restore := bindCurrentScheduler(s)
	defer restore()
	if s.opts.workers > 0 {
		s.startWorkers()
	}
	p := fn()
	p.state.setSchedulerIfNil(s)
	s.Track(p.state)
	s.drain()
	_, err := Await(p)
	return err
}

// Shutdown stops accepting new worker dispatch and blocks until every
// running worker goroutine has returned. Already-queued regular tasks are
// still drained by the workers before they exit.
func (s *Scheduler) Shutdown() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
	s.workersWG.Wait()
}
