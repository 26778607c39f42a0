package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/executor"
)

// Run executes the application until all jobs are done, or, when the API
// server is enabled, until ctx is cancelled.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListEffects {
		if err := a.printEffects(); err != nil {
			return err
		}
	}

	if a.config.APIAddr != "" {
		if err := a.startAPIServer(ctx); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, a.closeAPIServer(ctx))
		}()
	}

	if jobs := a.model.Jobs; len(jobs) > 0 {
		a.logger.Info("Starting job execution...", "jobs", len(jobs), "workers", a.config.WorkerCount)
		if err := executor.New(a.runner, a.config.WorkerCount).Run(ctx, jobs); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		a.logger.Info("Execution finished.")
	}

	if a.APIAddr() != nil {
		a.logger.Info("Serving API until interrupted.")
		<-ctx.Done()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printEffects writes the catalog as a table.
func (a *App) printEffects() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPARAMS\tDESCRIPTION")
	for _, def := range effects.List() {
		params := make([]string, 0, len(def.Params))
		for _, p := range def.Params {
			params = append(params, fmt.Sprintf("%s=%d (min %d)", p.ID, p.Default, p.Minimum))
		}
		if len(params) == 0 {
			params = append(params, "-")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.ID, def.Name, strings.Join(params, ", "), def.Description)
	}
	return tw.Flush()
}
