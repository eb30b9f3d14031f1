// Package parallel runs independent jobs, such as decoding several files,
// on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Pool runs jobs on a fixed number of workers. Each worker has its own
// queue and takes work from the others when it runs dry, so one slow job
// does not hold back the rest of a batch.
//
// A Pool is safe for concurrent use.
type Pool struct {
	queues []chan func()
	done   chan struct{}
	wg     sync.WaitGroup

	// mu is held shared while a job is queued and exclusively by Close,
	// so no job is queued after the workers start draining.
	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool of n workers. n <= 0 means GOMAXPROCS.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		queues: make([]chan func(), n),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), max(4*n, 8))
	}
	p.wg.Add(n)
	for i := range n {
		go func() {
			defer p.wg.Done()
			for {
				job, ok := p.next(i)
				if !ok {
					return
				}
				job()
			}
		}()
	}
	return p
}

// next returns the next job for worker id: its own queue first, then any
// other queue, then a blocking wait. After Close it empties its own queue
// and reports false.
func (p *Pool) next(id int) (func(), bool) {
	own := p.queues[id]
	select {
	case job := <-own:
		return job, true
	default:
	}
	for k := 1; k < len(p.queues); k++ {
		select {
		case job := <-p.queues[(id+k)%len(p.queues)]:
			return job, true
		default:
		}
	}
	select {
	case job := <-own:
		return job, true
	case <-p.done:
	}
	select {
	case job := <-own:
		return job, true
	default:
		return nil, false
	}
}

// enqueue queues job on queue i and reports whether the pool accepted it.
func (p *Pool) enqueue(i int, job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.queues[i%len(p.queues)] <- job
	return true
}

// Run executes every job and waits for all of them. Jobs the pool no
// longer accepts, because Close has begun, run on the calling goroutine.
func (p *Pool) Run(jobs []func()) {
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		wrapped := func() {
			defer wg.Done()
			job()
		}
		if !p.enqueue(i, wrapped) {
			wrapped()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued jobs have run. It is safe to
// call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return len(p.queues) }

// Map applies fn to every element of in on the pool and returns the
// results in input order.
func Map[T, R any](p *Pool, in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	jobs := make([]func(), len(in))
	for i, v := range in {
		jobs[i] = func() { out[i] = fn(v) }
	}
	p.Run(jobs)
	return out
}
