// Package yamlcfg implements config.Loader for YAML job files.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

type jobFile struct {
	Jobs []job `yaml:"jobs"`
}

type job struct {
	Name     string    `yaml:"name"`
	Song     string    `yaml:"song"`
	Output   string    `yaml:"output"`
	Backend  *backend  `yaml:"backend"`
	Progress *progress `yaml:"progress"`
	Effects  []effect  `yaml:"effects"`
}

type backend struct {
	URL      string `yaml:"url"`
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
}

type progress struct {
	URL                string `yaml:"url"`
	Namespace          string `yaml:"namespace"`
	Event              string `yaml:"event"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type effect struct {
	Type   string         `yaml:"type"`
	Params map[string]int `yaml:"params"`
}

// Loader reads `.yaml` and `.yml` job files.
type Loader struct{}

// NewLoader creates a new YAML job loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}

		var root jobFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}

		fileModel := &config.Model{}
		for _, j := range root.Jobs {
			translated, err := translateJob(file, j)
			if err != nil {
				return nil, err
			}
			fileModel.Jobs = append(fileModel.Jobs, translated)
		}
		if err := model.Merge(fileModel); err != nil {
			return nil, err
		}
		logger.Debug("Loaded jobs from YAML file.", "file", file, "jobs", len(root.Jobs))
	}

	return model, nil
}

func translateJob(file string, j job) (*config.Job, error) {
	out := &config.Job{
		Name:   j.Name,
		Source: file,
		Song:   config.ResolvePath(file, j.Song),
		Output: config.ResolvePath(file, j.Output),
	}

	if j.Backend != nil {
		timeout, err := config.ParseTimeout(j.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("job '%s' in %s: %w", j.Name, file, err)
		}
		out.Backend = &config.Backend{URL: j.Backend.URL, Endpoint: j.Backend.Endpoint, Timeout: timeout}
	}

	if j.Progress != nil {
		out.Progress = &config.Progress{
			URL:                j.Progress.URL,
			Namespace:          j.Progress.Namespace,
			Event:              j.Progress.Event,
			InsecureSkipVerify: j.Progress.InsecureSkipVerify,
		}
	}

	for _, e := range j.Effects {
		params := e.Params
		if params == nil {
			params = map[string]int{}
		}
		out.Effects = append(out.Effects, &config.EffectStep{Type: e.Type, Params: params})
	}
	return out, nil
}
