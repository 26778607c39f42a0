package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the backend path songs are posted to.
	DefaultEndpoint = "/api/song"
	// DefaultTimeout bounds a single backend round trip.
	DefaultTimeout = 2 * time.Minute
)

// Model is the unified representation of every loaded job file.
type Model struct {
	Jobs []*Job
}

// Job is one song to run through an ordered list of effects.
type Job struct {
	Name     string
	Source   string // file the job was declared in
	Song     string
	Output   string
	Backend  *Backend
	Progress *Progress
	Effects  []*EffectStep
}

// Backend describes where the processing service lives.
type Backend struct {
	URL      string
	Endpoint string
	Timeout  time.Duration
}

// Progress describes an optional socket.io feed of processing progress.
type Progress struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// EffectStep is one effect application as written by the user. Params holds
// only the values the user set; omitted params take their defaults later.
type EffectStep struct {
	Type   string
	Params map[string]int
}

// Merge appends other's jobs to m. Job names must stay unique.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	seen := make(map[string]string, len(m.Jobs))
	for _, j := range m.Jobs {
		seen[j.Name] = j.Source
	}
	for _, j := range other.Jobs {
		if src, dup := seen[j.Name]; dup {
			return fmt.Errorf("job '%s' declared in both %s and %s", j.Name, src, j.Source)
		}
		seen[j.Name] = j.Source
		m.Jobs = append(m.Jobs, j)
	}
	return nil
}

// Validate checks the structural requirements of a job. Effect parameters
// are checked against the effect catalog separately.
func (j *Job) Validate() error {
	var errs []string
	if strings.TrimSpace(j.Name) == "" {
		errs = append(errs, "job name must not be empty")
	}
	if j.Song == "" {
		errs = append(errs, "song path is required")
	}
	if j.Output == "" {
		errs = append(errs, "output path is required")
	}
	if len(j.Effects) == 0 {
		errs = append(errs, "at least one effect is required")
	}
	if j.Progress != nil && j.Progress.URL == "" {
		errs = append(errs, "progress url is required when a progress block is present")
	}
	if len(errs) > 0 {
		return fmt.Errorf("job '%s' (%s) is invalid:\n- %s", j.Name, j.Source, strings.Join(errs, "\n- "))
	}
	return nil
}

// ApplyBackendDefaults fills unset backend fields from the fallback URL and
// the package defaults.
func (j *Job) ApplyBackendDefaults(fallbackURL string) error {
	if j.Backend == nil {
		j.Backend = &Backend{}
	}
	if j.Backend.URL == "" {
		j.Backend.URL = fallbackURL
	}
	if j.Backend.URL == "" {
		return errors.New("no backend url configured")
	}
	if j.Backend.Endpoint == "" {
		j.Backend.Endpoint = DefaultEndpoint
	}
	if j.Backend.Timeout <= 0 {
		j.Backend.Timeout = DefaultTimeout
	}
	return nil
}

// ResolvePath interprets p relative to the directory of the source file.
func ResolvePath(source, p string) string {
	if p == "" || filepath.IsAbs(p) || source == "" {
		return p
	}
	return filepath.Join(filepath.Dir(source), p)
}

// ParseTimeout parses an optional duration string.
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout '%s': %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout '%s': must not be negative", s)
	}
	return d, nil
}
