package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/fsutil"
	"github.com/vk/beatfx/internal/runner"
)

// JobRunner plans and processes single jobs.
type JobRunner interface {
	Plan(job *config.Job) ([]effects.Payload, error)
	Process(ctx context.Context, job *config.Job) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
	runner JobRunner

	mu          sync.Mutex
	apiListener net.Listener
	httpServer  *http.Server
}

// NewApp builds an App: it checks the effect catalog, loads every job file
// under the configured paths with the matching loader, and plans each job
// so that invalid effects are reported before anything is submitted. A nil
// jr means jobs go to real backends.
//
// A broken effect catalog is a programming error and panics.
func NewApp(outW io.Writer, cfg *Config, jr JobRunner, loaders ...config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if err := effects.Check(); err != nil {
		panic(err)
	}
	logger.Debug("Effect catalog check passed.", "effects", len(effects.List()))

	if jr == nil {
		jr = runner.New(cfg.BackendURL)
	}

	model := &config.Model{}
	for _, loader := range loaders {
		files, err := fsutil.FindFiles(cfg.JobPaths, loader.Extensions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to find job files: %w", err)
		}
		if len(files) == 0 {
			continue
		}
		loaded, err := loader.Load(ctx, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to load jobs: %w", err)
		}
		if err := model.Merge(loaded); err != nil {
			return nil, fmt.Errorf("failed to load jobs: %w", err)
		}
	}
	logger.Debug("Job files loaded.", "jobs", len(model.Jobs))

	if len(cfg.JobPaths) > 0 && len(model.Jobs) == 0 {
		logger.Warn("No jobs found in the given paths.", "paths", cfg.JobPaths)
	}

	for _, job := range model.Jobs {
		if _, err := jr.Plan(job); err != nil {
			return nil, err
		}
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		model:  model,
		runner: jr,
	}, nil
}

// Jobs returns the loaded jobs. This is primarily for testing.
func (a *App) Jobs() []*config.Job {
	return a.model.Jobs
}
