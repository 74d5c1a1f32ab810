package searcher

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"threes/experiments/metrics"
)

// pool bounds the number of goroutines a single search may run. A task that
// finds every slot taken runs on the calling goroutine.
type pool struct {
	size    int64
	sem     *semaphore.Weighted
	metrics metrics.Collector
}

func newPool(size int, collector metrics.Collector) *pool {
	if size <= 0 {
		panic(fmt.Sprintf("pool size must be positive, got %d", size))
	}
	return &pool{
		size:    int64(size),
		sem:     semaphore.NewWeighted(int64(size)),
		metrics: collector,
	}
}

// run hands task to a worker in g when a slot is free, and otherwise runs it
// inline and returns its error directly. Worker errors surface from g.Wait.
func (p *pool) run(g *errgroup.Group, task func() error) error {
	if p.sem.TryAcquire(1) {
		p.metrics.AddDispatched()
		g.Go(func() error {
			defer p.sem.Release(1)
			return safely(task)
		})
		return nil
	}
	p.metrics.AddInline()
	return safely(task)
}

// close waits until every worker slot is free again
func (p *pool) close() {
	if err := p.sem.Acquire(context.Background(), p.size); err != nil {
		panic(fmt.Sprintf("failed to drain search pool: %v", err))
	}
	p.sem.Release(p.size)
}

// safely turns a panic inside task into an error
func safely(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search task panicked: %v", r)
		}
	}()
	return task()
}
