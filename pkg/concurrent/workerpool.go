// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs independent functions with a bounded number of goroutines.
type WorkerPool struct {
	workerCount int
}

// Run executes all functions and returns the first error, cancelling the
// functions that have not started yet.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func() error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}

			return fn()
		})
	}

	return g.Wait()
}

// RunAll executes every function regardless of failures in the others.
// The returned slice has one slot per function, in argument order; a nil
// slot means the function succeeded.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	results := make([]error, len(functions))
	if len(functions) == 0 {
		return results
	}

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			// Each goroutine owns its own slot.
			results[i] = fn()
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// HasErrors reports whether any slot returned by RunAll holds an error.
func HasErrors(results []error) bool {
	for _, err := range results {
		if err != nil {
			return true
		}
	}
	return false
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}
