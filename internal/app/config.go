package app

import (
	"errors"
	"net/url"
)

// DefaultBackendURL is used when neither a flag, BASE_URL nor the job file
// names a backend.
const DefaultBackendURL = "http://localhost:8000"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	JobPaths    []string // .hcl / .yaml / .yml files or directories
	BackendURL  string
	APIAddr     string // empty disables the API server
	ListEffects bool

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.JobPaths) == 0 && cfg.APIAddr == "" && !cfg.ListEffects {
		return nil, errors.New("nothing to do: provide a job path, an API address or --list-effects")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("worker count must be at least 1")
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	if u, err := url.Parse(cfg.BackendURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New("backend url must be an absolute http(s) url")
	}

	return &cfg, nil
}
