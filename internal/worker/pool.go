// Package worker provides the bounded pool that drives enrichment:
// a fixed number of workers pull subjects from a queue, and completed
// results are collected in completion order with periodic checkpoint
// callbacks so a crash loses at most one checkpoint interval of work.
package worker

import (
	"context"
	"sync"
)

// Work produces the result for one subject. It must not return an
// error; per-subject failures are encoded inside R.
type Work[S, R any] func(ctx context.Context, subject S) R

// Checkpoint persists the results accumulated so far. It is invoked
// from the collection loop only, never concurrently, and receives the
// full completion-ordered slice each time.
type Checkpoint[R any] func(done []R) error

// Pool runs one enrichment batch. Subjects are dispatched to at most
// Workers goroutines; results flow back over a channel and are
// checkpointed every Every completions plus once at the end.
type Pool[S, R any] struct {
	Workers int
	Every   int
}

// Run processes all subjects and returns the results in completion
// order. Each subject is attempted exactly once. Checkpoint errors are
// returned but do not stop the batch; the final flush always runs
// unless the context is cancelled first.
func (p Pool[S, R]) Run(ctx context.Context, subjects []S, work Work[S, R], checkpoint Checkpoint[R]) ([]R, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(subjects) {
		workers = len(subjects)
	}

	queue := make(chan S)
	results := make(chan R)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for subject := range queue {
				select {
				case results <- work(ctx, subject):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, subject := range subjects {
			select {
			case queue <- subject:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := make([]R, 0, len(subjects))
	var checkpointErr error
	for r := range results {
		done = append(done, r)
		if checkpoint != nil && p.Every > 0 && len(done)%p.Every == 0 {
			if err := checkpoint(done); err != nil {
				checkpointErr = err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		// Flush what completed before cancellation, then report it.
		if checkpoint != nil && len(done) > 0 {
			_ = checkpoint(done)
		}
		return done, err
	}

	if checkpoint != nil && len(done) > 0 {
		if err := checkpoint(done); err != nil {
			checkpointErr = err
		}
	}
	return done, checkpointErr
}
