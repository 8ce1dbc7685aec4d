// Package pipeline fans read pairs out across a bounded worker pool and
// collects the per-pair outcomes.
//
// The only contract to implement is Worker (Process). Pairs are fully
// independent, workers share no mutable state, and no ordering of outcomes
// is guaranteed.
package pipeline

import (
	"context"
	"sync"

	"tablespoon/internal/processor"
	"tablespoon/internal/scan"
)

// Config controls the worker pool.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Worker runs one pair to completion without letting errors escape.
type Worker interface {
	Process(ctx context.Context, pair scan.ReadPair) processor.Outcome
}

// Run dispatches every pair to the pool and returns all outcomes. Workers
// mostly block on external subprocess completion, so the pool is sized on
// the configured thread count rather than on CPUs. Cancellation stops
// feeding new pairs; in-flight tool invocations are killed through ctx.
func Run(ctx context.Context, cfg Config, pairs []scan.ReadPair, w Worker) []processor.Outcome {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	jobs := make(chan scan.ReadPair)
	results := make(chan processor.Outcome, len(pairs))

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for i := 0; i < cfg.Threads; i++ {
		go func() {
			defer wg.Done()
			for pair := range jobs {
				results <- w.Process(ctx, pair)
			}
		}()
	}

feed:
	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- pair:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	outs := make([]processor.Outcome, 0, len(pairs))
	for o := range results {
		outs = append(outs, o)
	}
	return outs
}
