// Package worker implements a fixed-size goroutine pool that runs submitted
// tasks concurrently and collects their errors for the caller to inspect
// once, via Wait.
package worker

import (
	"sync"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// Task is a unit of work submitted to a Pool. A non-nil return is collected
// and surfaced from Wait, but never stops other tasks from running.
type Task func() error

// Pool runs at most size Tasks concurrently.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup

	mu     sync.Mutex
	errs   *pfinderrors.MultiError
	stopCh chan struct{}
	once   sync.Once
}

// NewWorkerPool starts size worker goroutines, each pulling Tasks off a
// shared channel until the pool is stopped.
func NewWorkerPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks:  make(chan Task),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			err := task()

			p.mu.Lock()
			p.errs = p.errs.Append(err)
			p.mu.Unlock()

			p.wg.Done()
		case <-p.stopCh:
			return
		}
	}
}

// Submit enqueues task for execution by the next free worker. Submit may
// block until a worker is available to receive it.
func (p *Pool) Submit(task Task) {
	p.wg.Add(1)

	select {
	case p.tasks <- task:
	case <-p.stopCh:
		p.wg.Done()
	}
}

// Wait blocks until every Submit call so far has completed, then returns the
// accumulated error (nil if every task succeeded). Wait may be called
// multiple times; each call only waits on tasks submitted since the previous
// one returned.
func (p *Pool) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	errs := p.errs
	p.errs = nil
	p.mu.Unlock()

	return errs.ErrorOrNil()
}

// Stop shuts the pool down, terminating every worker goroutine. Safe to call
// more than once.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.stopCh)
	})
}
