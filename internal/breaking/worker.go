package breaking

import (
	"sync"

	"github.com/vovakirdan/breaking/internal/registry"
)

// updateJob is one worker's share of a tick's update batch.
type updateJob struct {
	refs []registry.Ref
	fn   func(registry.Ref)
	done *sync.WaitGroup
}

// updatePool is a fixed set of goroutines that run the update phase.
// Run hands out one batch and returns only when every entity in it has
// been updated, so callers get a barrier per tick without starting
// goroutines per tick.
type updatePool struct {
	workers int
	jobs    chan updateJob
	wg      sync.WaitGroup
	once    sync.Once
}

func newUpdatePool(workers int) *updatePool {
	if workers < 1 {
		workers = 1
	}
	p := &updatePool{
		workers: workers,
		jobs:    make(chan updateJob, workers),
	}
	p.wg.Add(workers)
	for range workers {
		go p.loop()
	}
	return p
}

func (p *updatePool) loop() {
	defer p.wg.Done()
	for job := range p.jobs {
		for _, ref := range job.refs {
			job.fn(ref)
		}
		job.done.Done()
	}
}

// Run calls fn once for every ref and waits for all calls to finish.
// fn must only touch the entity named by its argument.
func (p *updatePool) Run(refs []registry.Ref, fn func(registry.Ref)) {
	if len(refs) == 0 {
		return
	}

	chunk := (len(refs) + p.workers - 1) / p.workers
	var done sync.WaitGroup
	for start := 0; start < len(refs); start += chunk {
		end := min(start+chunk, len(refs))
		done.Add(1)
		p.jobs <- updateJob{refs: refs[start:end], fn: fn, done: &done}
	}
	done.Wait()
}

// Workers returns the number of goroutines in the pool.
func (p *updatePool) Workers() int {
	return p.workers
}

// Close stops the workers. It is safe to call more than once; Run must
// not be called afterwards.
func (p *updatePool) Close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
