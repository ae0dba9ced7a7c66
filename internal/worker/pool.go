package worker

import (
	"sync"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/metrics"
)

type task func()

// Pool runs submitted tasks on a fixed number of goroutines. Used to carry
// audit writes off the apply hot path.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n, buffer int) *Pool {
	if n <= 0 {
		n = 1
	}
	if buffer <= 0 {
		buffer = 1024
	}
	p := &Pool{jobs: make(chan task, buffer)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
