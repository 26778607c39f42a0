// Package runner carries a single job from its effect list to a processed
// track on disk.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/beatfx/internal/audio"
	"github.com/vk/beatfx/internal/backend"
	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/progress"
)

// Backend is the part of backend.Client the runner needs.
type Backend interface {
	Process(ctx context.Context, songPath string, payloads []effects.Payload) (*audio.Track, error)
	Close()
}

// BackendFactory opens a backend for one job's settings.
type BackendFactory func(cfg *config.Backend) (Backend, error)

// ProgressFunc starts following a progress feed.
type ProgressFunc func(ctx context.Context, cfg *config.Progress, handle progress.Handler) (func(), error)

// Runner processes jobs.
type Runner struct {
	fallbackURL string
	newBackend  BackendFactory
	listen      ProgressFunc
}

// New returns a Runner talking to real backends. fallbackURL is used for
// jobs that do not name a backend themselves.
func New(fallbackURL string) *Runner {
	return &Runner{
		fallbackURL: fallbackURL,
		newBackend: func(cfg *config.Backend) (Backend, error) {
			c, err := backend.New(cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		listen: progress.Listen,
	}
}

// NewWith returns a Runner using the given collaborators.
func NewWith(fallbackURL string, newBackend BackendFactory, listen ProgressFunc) *Runner {
	return &Runner{fallbackURL: fallbackURL, newBackend: newBackend, listen: listen}
}

// Plan checks a job and turns its effect steps into backend payloads. Every
// invalid step is reported, not just the first.
func (r *Runner) Plan(job *config.Job) ([]effects.Payload, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if err := job.ApplyBackendDefaults(r.fallbackURL); err != nil {
		return nil, fmt.Errorf("job '%s': %w", job.Name, err)
	}

	var errs []string
	payloads := make([]effects.Payload, 0, len(job.Effects))
	for i, step := range job.Effects {
		p, err := effects.Prepare(step.Type, step.Params)
		if err != nil {
			errs = append(errs, fmt.Sprintf("effect #%d (%s): %v", i+1, step.Type, err))
			continue
		}
		payloads = append(payloads, p)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("job '%s' (%s) has invalid effects:\n- %s", job.Name, job.Source, strings.Join(errs, "\n- "))
	}
	return payloads, nil
}

// Process submits the job and writes the processed track to its output
// path. On failure a stale output left by an earlier run is removed.
func (r *Runner) Process(ctx context.Context, job *config.Job) (err error) {
	ctx, logger := ctxlog.With(ctx, "job", job.Name)
	logger.Info("Processing job", "song", job.Song, "effects", len(job.Effects))

	payloads, err := r.Plan(job)
	if err != nil {
		return err
	}

	client, err := r.newBackend(job.Backend)
	if err != nil {
		return fmt.Errorf("job '%s': %w", job.Name, err)
	}
	defer client.Close()

	if job.Progress != nil {
		stop, err := r.listen(ctx, job.Progress, func(ev progress.Event) {
			logger.Info("Backend progress", "event", ev.Name, "data", ev.Data)
		})
		if err != nil {
			logger.Warn("Progress feed unavailable", "error", err)
		} else {
			defer stop()
		}
	}

	defer func() {
		if err != nil {
			if clearErr := audio.Clear(job.Output); clearErr != nil {
				err = errors.Join(err, clearErr)
			}
		}
	}()

	track, err := client.Process(ctx, job.Song, payloads)
	if err != nil {
		return fmt.Errorf("job '%s': %w", job.Name, err)
	}
	if err := track.WriteFile(job.Output); err != nil {
		return fmt.Errorf("job '%s': %w", job.Name, err)
	}

	logger.Info("Job finished", "output", job.Output, "bytes", len(track.Data))
	return nil
}
