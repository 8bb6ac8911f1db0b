//go:build linux

package uring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/pawelgaczynski/giouring"
)

// minKernelMajor/minKernelMinor mirror the minimum io_uring feature level
// vlourme-rio/vortex.go requires (GTE 5.19) before it will construct a
// ring at all.
const (
	minKernelMajor = 5
	minKernelMinor = 19
)

// Result is a completion's outcome: the syscall return value (bytes
// transferred, a new fd, ...) or the negated errno the kernel reported.
type Result struct {
	N   int
	Err error
}

type leaseRequest struct {
	prepare func(*giouring.SubmissionQueueEntry)
	ticket  uint64
}

// Pump owns one io_uring instance. Its own goroutine (loop, below), pinned
// to its own OS thread, continuously leases queued requests onto the
// submission queue and drains completions — the same role pkg/ring.go's
// listenSQ/listenCQ goroutines play, collapsed into one loop here since
// this pump batches submission and completion together rather than
// running them as two independently-paced stages.
//
// A goroutine that issues an operation is not guaranteed to be resumed on
// the OS thread it started on, so unlike a thread-pinned coroutine
// resuming on its own worker thread, it cannot be relied on to ever poll
// this ring itself. loop exists precisely to make that unnecessary: once
// GetSQE hands back a ticket, everything afterward — submission and
// completion — runs on loop's pinned thread regardless of where the
// caller goroutine goes. ringMu additionally allows a scheduler's own
// drain loop to call Poll opportunistically from yet another thread
// without racing loop; it is not required for correctness, only for
// lower completion latency.
type Pump struct {
	ring   *giouring.Ring
	ringMu sync.Mutex

	nextTicket atomic.Uint64
	leaseCh    chan leaseRequest

	mu      sync.Mutex
	waiters map[uint64]chan Result
	orphans map[uint64]Result

	closeCh chan struct{}
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// New creates a Pump backed by a ring with the given submission queue
// depth, after checking the running kernel is new enough to support
// io_uring reliably (the same floor vlourme-rio's Vortex applies before
// falling back), and starts its owning goroutine.
func New(entries uint32) (*Pump, error) {
	if !kernelAtLeast(minKernelMajor, minKernelMinor) {
		return nil, ErrUnsupportedKernel
	}
	if entries == 0 {
		entries = 128
	}
	r, err := giouring.CreateRing(entries)
	if err != nil {
		return nil, errors.From(ErrInit, errors.WithWrap(err))
	}
	p := &Pump{
		ring:    r,
		leaseCh: make(chan leaseRequest, 1024),
		waiters: make(map[uint64]chan Result),
		orphans: make(map[uint64]Result),
		closeCh: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p, nil
}

// nextTicketValue hands out a fresh, never-reused-while-in-flight ticket.
// Starting away from zero keeps 0 free as a sentinel for "no ticket",
// matching giouring's own convention that a zero user_data CQE carries no
// correlated operation (pkg/ring/ring.go skips cqe.UserData == 0).
func (p *Pump) nextTicketValue() uint64 {
	return p.nextTicket.Add(1)
}

// GetSQE allocates a ticket and hands prepare off to the pump's owning
// goroutine to run against a leased submission queue entry, stamping the
// entry's user_data with that ticket. It does not block on the kernel;
// the lease and the eventual PrepareXxx call both happen on loop.
func (p *Pump) GetSQE(prepare func(*giouring.SubmissionQueueEntry)) (uint64, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	ticket := p.nextTicketValue()
	select {
	case p.leaseCh <- leaseRequest{prepare: prepare, ticket: ticket}:
		return ticket, nil
	case <-p.closeCh:
		return 0, ErrClosed
	}
}

// Wait returns a channel that will receive ticket's result exactly once:
// immediately, if loop already observed its completion and parked it as
// an orphan, or later, the next time loop observes it. A second Wait for
// a ticket already in waiters is idempotent, returning the same channel
// instead of replacing it, matching spec.md §4.4's "wait(ticket) ... else
// if ticket ∈ waiters: return the existing promise".
func (p *Pump) Wait(ticket uint64) <-chan Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if res, ok := p.orphans[ticket]; ok {
		delete(p.orphans, ticket)
		ch := make(chan Result, 1)
		ch <- res
		return ch
	}
	if ch, ok := p.waiters[ticket]; ok {
		return ch
	}
	ch := make(chan Result, 1)
	p.waiters[ticket] = ch
	return ch
}

// SubmitAndWait registers the wait for ticket before the entry is
// necessarily submitted, so a completion that the owning goroutine
// observes between the two never gets lost — the same ordering
// original_source/vega/io/IoUring.cc's submitAndWait uses. Submission
// itself is driven by loop, not by the caller, since entries are batched.
func (p *Pump) SubmitAndWait(ticket uint64) <-chan Result {
	return p.Wait(ticket)
}

// loop is the pump's sole owner of *giouring.Ring: it leases and prepares
// queued requests, submits whatever was prepared, and drains completions,
// in the same batch-then-submit-then-drain shape pkg/ring.go's listenSQ
// and listenCQ use, collapsed into a single goroutine.
func (p *Pump) loop() {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	idleStreak := 0
	for {
		select {
		case <-p.closeCh:
			p.drainOnClose()
			return
		default:
		}

		did := p.drainLeases()
		did += p.pollOnce()

		if did == 0 {
			idleStreak++
			if idleStreak > 10 {
				idleStreak = 0
				time.Sleep(200 * time.Microsecond)
			} else {
				runtime.Gosched()
			}
		} else {
			idleStreak = 0
		}
	}
}

func (p *Pump) drainLeases() int {
	n := 0
	for {
		select {
		case req := <-p.leaseCh:
			p.ringMu.Lock()
			sqe := p.ring.GetSQE()
			for sqe == nil {
				if _, err := p.ring.Submit(); err != nil {
					break
				}
				sqe = p.ring.GetSQE()
			}
			if sqe == nil {
				p.ringMu.Unlock()
				p.handleCQE(req.ticket, Result{Err: errors.New("uring: submission queue full")})
				continue
			}
			req.prepare(sqe)
			sqe.UserData = req.ticket
			p.ringMu.Unlock()
			n++
		default:
			if n > 0 {
				p.ringMu.Lock()
				_, _ = p.ring.Submit()
				p.ringMu.Unlock()
			}
			return n
		}
	}
}

func (p *Pump) pollOnce() int {
	return p.Poll()
}

// Poll drains whatever completion queue entries are currently available,
// resolving any matching waiter or, if nothing is waiting yet, parking the
// result as an orphan for a future Wait to pick up. It returns the number
// of completions processed and never blocks. Exported so a caller that
// wants to force a drain pass (tests, or a scheduler that wants to report
// io_uring activity in its own dispatch accounting) can call it directly;
// loop already calls it continuously once the pump is running.
func (p *Pump) Poll() int {
	if p.closed.Load() {
		return 0
	}
	var batch [64]*giouring.CompletionQueueEvent
	p.ringMu.Lock()
	n := p.ring.PeekBatchCQE(batch[:])
	if n > 0 {
		p.ring.CQAdvance(n)
	}
	p.ringMu.Unlock()
	if n == 0 {
		return 0
	}
	for i := uint32(0); i < n; i++ {
		cqe := batch[i]
		batch[i] = nil
		if cqe.UserData == 0 {
			continue
		}
		p.handleCQE(cqe.UserData, resultFromCQE(cqe))
	}
	return int(n)
}

func resultFromCQE(cqe *giouring.CompletionQueueEvent) Result {
	if cqe.Res < 0 {
		return Result{Err: syscall.Errno(-cqe.Res)}
	}
	return Result{N: int(cqe.Res)}
}

// handleCQE is loop's per-completion bookkeeping, factored out so the
// waiter/orphan correlation logic can be exercised without a real ring.
func (p *Pump) handleCQE(ticket uint64, res Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch, ok := p.waiters[ticket]; ok {
		delete(p.waiters, ticket)
		ch <- res
		return
	}
	p.orphans[ticket] = res
}

func (p *Pump) drainOnClose() {
	p.mu.Lock()
	for ticket, ch := range p.waiters {
		delete(p.waiters, ticket)
		ch <- Result{Err: ErrClosed}
	}
	p.mu.Unlock()
	p.ringMu.Lock()
	p.ring.QueueExit()
	p.ringMu.Unlock()
}

// Close stops the pump's owning goroutine and tears down the ring. Any
// ticket still parked in waiters receives ErrClosed.
func (p *Pump) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.closeCh)
	p.wg.Wait()
	return nil
}
