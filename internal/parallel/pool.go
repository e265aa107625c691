// Package parallel provides the worker pool rend uses for background
// resource preparation and for parallel per-frame precomputation
// (transparent view-depth fills before sorting).
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines with per-worker queues and work
// stealing. Stealing balances load when some tasks are slower than
// others, which is common when preparation closures touch resources of
// very different sizes.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used. Workers start
// immediately and wait for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A few slots of buffering per worker hides submission latency.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	mine := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(mine)
			return
		case fn := <-mine:
			if fn != nil {
				fn()
			}
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			// Nothing anywhere, block on own queue.
			select {
			case <-p.done:
				p.drain(mine)
				return
			case fn := <-mine:
				if fn != nil {
					fn()
				}
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			if fn != nil {
				fn()
			}
		default:
			return
		}
	}
}

// steal takes one work item from another worker's queue, or nil.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Submit sends one work item to the worker with the shortest queue.
// No-op if the pool is closed or fn is nil.
func (p *WorkerPool) Submit(fn func()) {
	if fn == nil || !p.running.Load() {
		return
	}

	minIdx := 0
	minLen := len(p.queues[0])
	for i := 1; i < p.workers; i++ {
		if l := len(p.queues[i]); l < minLen {
			minIdx, minLen = i, l
		}
	}

	select {
	case p.queues[minIdx] <- fn:
	case <-p.done:
	}
}

// ExecuteAll distributes the work items round-robin and waits for all
// of them to complete. No-op if the pool is closed.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		fn := fn
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()
}

// ForEach splits the half-open range [0, n) into per-worker chunks and
// runs fn(start, end) on the pool, waiting for completion. grain is the
// minimum chunk size; ranges smaller than grain run on the caller.
func (p *WorkerPool) ForEach(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if grain < 1 {
		grain = 1
	}
	if n <= grain || !p.running.Load() {
		fn(0, n)
		return
	}

	chunks := p.workers
	if limit := (n + grain - 1) / grain; chunks > limit {
		chunks = limit
	}
	size := (n + chunks - 1) / chunks

	work := make([]func(), 0, chunks)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		start, end := start, end
		work = append(work, func() { fn(start, end) })
	}
	p.ExecuteAll(work)
}

// Close stops accepting work, waits for queued work to finish, and
// stops all workers. Safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }
