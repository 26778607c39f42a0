package config

import "context"

// Loader is the interface for a format-specific job file loader.
type Loader interface {
	// Extensions lists the file extensions the loader accepts, with the dot.
	Extensions() []string

	// Load reads the given files and translates every job they declare into
	// the format-agnostic model.
	Load(ctx context.Context, files ...string) (*Model, error)
}
