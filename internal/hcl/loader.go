package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/vk/beatfx/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL job loader reading `env.*` values from the
// process environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// NewLoaderWithEnv creates a loader that resolves `env.*` against a fixed
// list of KEY=VALUE pairs.
func NewLoaderWithEnv(env []string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses every given file and translates its job blocks into the model.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(files))

	evalCtx := l.evalContext()
	parser := hclparse.NewParser()
	model := &config.Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.JobFile
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		fileModel := &config.Model{}
		for _, j := range root.Jobs {
			job, err := l.translateJob(file, j, evalCtx)
			if err != nil {
				return nil, err
			}
			fileModel.Jobs = append(fileModel.Jobs, job)
		}
		if err := model.Merge(fileModel); err != nil {
			return nil, err
		}
		logger.Debug("Loaded jobs from HCL file.", "file", file, "jobs", len(root.Jobs))
	}

	logger.Debug("HCL loading complete.", "jobs", len(model.Jobs))
	return model, nil
}

// translateJob converts the HCL-specific job schema into the agnostic model.
func (l *Loader) translateJob(file string, s *schema.Job, evalCtx *hcl.EvalContext) (*config.Job, error) {
	job := &config.Job{
		Name:   s.Name,
		Source: file,
		Song:   config.ResolvePath(file, s.Song),
		Output: config.ResolvePath(file, s.Output),
	}

	if s.Backend != nil {
		timeout, err := config.ParseTimeout(s.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("job '%s' in %s: %w", s.Name, file, err)
		}
		job.Backend = &config.Backend{
			URL:      s.Backend.URL,
			Endpoint: s.Backend.Endpoint,
			Timeout:  timeout,
		}
	}

	if s.Progress != nil {
		job.Progress = &config.Progress{
			URL:                s.Progress.URL,
			Namespace:          s.Progress.Namespace,
			Event:              s.Progress.Event,
			InsecureSkipVerify: s.Progress.InsecureSkipVerify,
		}
	}

	for _, e := range s.Effects {
		params, err := decodeParams(e.Params, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("job '%s' in %s, effect '%s': %w", s.Name, file, e.Type, err)
		}
		job.Effects = append(job.Effects, &config.EffectStep{Type: e.Type, Params: params})
	}

	return job, nil
}
