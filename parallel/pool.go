// Package parallel provides the worker pool and tiling used to run the solver's
// data-parallel stages.
package parallel

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count to dispatch to workers.
// Below this, running on the caller is faster than the channel round trip.
const parallelThreshold = 64

// job is one contiguous range of work for a single worker.
type job struct {
	fn     func(worker, i0, i1 int)
	i0, i1 int
	wg     *sync.WaitGroup
}

// Pool is a set of persistent worker goroutines. Every Run call is a full
// barrier: it returns only after all of its ranges have completed.
//
// A nil *Pool is valid and runs everything on the calling goroutine.
type Pool struct {
	numWorkers int

	workChan chan job       // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
	mu       sync.Mutex // guards running
}

// NewPool creates a pool with n workers. n <= 0 uses GOMAXPROCS.
// Workers are started lazily on the first parallel Run.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: n}
}

// Workers returns the number of distinct worker IDs Run may pass to fn.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.workChan = make(chan job, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Close signals all workers to exit and waits for them.
// The pool can be reused afterwards; workers restart on demand.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}

// worker runs in a goroutine, processing jobs until stopped.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case j, ok := <-p.workChan:
			if !ok {
				return
			}
			j.fn(workerID, j.i0, j.i1)
			j.wg.Done()
		}
	}
}

// Run splits [0, n) into at most Workers() contiguous chunks and calls fn for
// each, then waits for all of them.
func (p *Pool) Run(n int, fn func(worker, i0, i1 int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.numWorkers == 1 || n < parallelThreshold {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	p.dispatch(n, chunkSize, fn)
}

// RunEach calls fn once per index in [0, n) with each index dispatched as its
// own job, so idle workers pull the next item. Use it when items are coarse
// (tiles, transform rows) and may be uneven.
func (p *Pool) RunEach(n int, fn func(worker, i int)) {
	if n <= 0 {
		return
	}
	each := func(worker, i0, i1 int) {
		for i := i0; i < i1; i++ {
			fn(worker, i)
		}
	}
	if p == nil || p.numWorkers == 1 || n == 1 {
		each(0, 0, n)
		return
	}
	p.dispatch(n, 1, each)
}

// RunTiles calls fn once per tile and waits for all of them.
func (p *Pool) RunTiles(tiles []Tile, fn func(worker int, t Tile)) {
	p.RunEach(len(tiles), func(worker, i int) {
		fn(worker, tiles[i])
	})
}

func (p *Pool) dispatch(n, chunkSize int, fn func(worker, i0, i1 int)) {
	p.start()

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		p.workChan <- job{fn: fn, i0: start, i1: end, wg: &wg}
	}

	// Stage barrier
	wg.Wait()
}
