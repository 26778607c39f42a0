// Package executor runs many jobs concurrently on a bounded pool of workers.
package executor

import (
	"context"

	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Processor handles a single job.
type Processor interface {
	Process(ctx context.Context, job *config.Job) error
}

// Executor fans jobs out to at most Workers concurrent processors. The first
// failure cancels every job that has not finished yet. Jobs that never start
// because the run was cancelled count as failed.
type Executor struct {
	proc    Processor
	workers int
}

// New creates an executor. A worker count below one means one.
func New(proc Processor, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{proc: proc, workers: workers}
}

// Run processes every job and returns the first error encountered. A cancelled
// ctx makes Run report the cancellation for the jobs it skipped.
func (e *Executor) Run(ctx context.Context, jobs []*config.Job) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executor starting run.", "jobs", len(jobs), "workers", e.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				logger.Debug("Skipping job, run cancelled.", "job", job.Name)
				return err
			}
			if err := e.proc.Process(gctx, job); err != nil {
				logger.Error("Job failed.", "job", job.Name, "error", err)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
