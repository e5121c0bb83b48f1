// worker/pool.go
package worker

import (
	"context"
	"sync"
)

type Job[T any] func() T

type Result[T any] struct {
	Index  int
	Output T
}

// Pool runs submitted jobs on a fixed set of goroutines. Results arrive in
// completion order; Index identifies the job that produced each one.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]

	wg        sync.WaitGroup
	closeOnce sync.Once
}

type jobWrapper[T any] struct {
	index int
	fn    Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			Index:  job.index,
			Output: output,
		}
	}
}

// Submit queues a job. It must not be called after Close.
func (p *Pool[T]) Submit(index int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{index: index, fn: fn}
}

// Close stops accepting jobs. Results is closed once every queued job is done.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() { close(p.jobs) })
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Map applies fn to every item on workerCount goroutines and returns the
// outputs in input order.
func Map[In, Out any](ctx context.Context, workerCount int, items []In, fn func(In) Out) ([]Out, error) {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out, nil
	}

	// Buffers hold every job and result so workers never block if the
	// caller gives up early.
	p := NewPool[Out](min(workerCount, len(items)), len(items))
	for i, item := range items {
		p.Submit(i, func() Out { return fn(item) })
	}
	p.Close()

	for received := 0; received < len(items); received++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-p.Results():
			out[res.Index] = res.Output
		}
	}
	return out, nil
}
