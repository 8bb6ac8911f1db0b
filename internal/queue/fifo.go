// Package queue implements the regular-task FIFO and delayed-task min-heap
// backing a Scheduler. Both are plain, mutex-guarded containers; dispatch
// policy lives in the scheduler, not here.
package queue

import "sync"

// FIFO is an unbounded, mutex-guarded task queue. Tasks are popped in the
// order they were pushed.
type FIFO struct {
	mu    sync.Mutex
	tasks []func()
}

// NewFIFO returns an empty queue.
func NewFIFO() *FIFO {
	return &FIFO{}
}

// Push appends a task to the back of the queue.
func (f *FIFO) Push(task func()) {
	f.mu.Lock()
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()
}

// Pop removes and returns the task at the front of the queue. ok is false
// if the queue was empty.
func (f *FIFO) Pop() (task func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tasks) == 0 {
		return nil, false
	}
	task = f.tasks[0]
	f.tasks[0] = nil
	f.tasks = f.tasks[1:]
	return task, true
}

// Len returns the number of queued tasks.
func (f *FIFO) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}
