package download

import (
	"log"
	"sync"
)

// eventQueue runs callbacks on a single goroutine in the order they were
// pushed. Pushing never blocks, so it is safe while Service.mu is held.
type eventQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
}

func newEventQueue() *eventQueue {
	q := &eventQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *eventQueue) push(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending = append(q.pending, fn)
	q.cond.Signal()
}

func (q *eventQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, fn := range batch {
			q.call(fn)
		}
	}
}

func (q *eventQueue) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event callback panicked: %v", r)
		}
	}()
	fn()
}

// close stops accepting events, runs what is queued and waits for the
// dispatcher to exit
func (q *eventQueue) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	<-q.done
}
