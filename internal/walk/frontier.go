package walk

import "sync"

// frontier is the shared work queue of directories awaiting a read. It
// tracks how many pushed items have not yet been fully processed, so idle
// workers can tell "queue momentarily empty" apart from "walk finished":
// as long as some worker still holds an item, new directories may appear.
type frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	items       []dirItem
	outstanding int
	stopped     bool
}

func newFrontier() *frontier {
	f := &frontier{}
	f.cond = sync.NewCond(&f.mu)

	return f
}

// push enqueues item. The matching done call comes after the worker that
// popped it has finished reading the directory.
func (f *frontier) push(item dirItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}

	f.items = append(f.items, item)
	f.outstanding++
	f.cond.Signal()
}

// pop blocks until an item is available, the walk is stopped, or no item can
// ever appear again (queue empty and nothing outstanding). The second return
// is false in the latter two cases.
func (f *frontier) pop() (dirItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.items) == 0 && f.outstanding > 0 && !f.stopped {
		f.cond.Wait()
	}

	if f.stopped || len(f.items) == 0 {
		return dirItem{}, false
	}

	item := f.items[len(f.items)-1]
	f.items = f.items[:len(f.items)-1]

	return item, true
}

// done marks one popped item as fully processed. When the last outstanding
// item completes, every blocked worker is released.
func (f *frontier) done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outstanding--

	if f.outstanding == 0 {
		f.cond.Broadcast()
	}
}

// stop abandons the walk: pending items are dropped and every blocked pop
// returns immediately.
func (f *frontier) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	f.items = nil
	f.cond.Broadcast()
}
