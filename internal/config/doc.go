// Package config defines the format-agnostic job model and the Loader
// interface implemented by each job file format.
//
// A `config.Model` is the single source of truth for the `app` and
// `executor` packages. Concrete loaders, such as for HCL and YAML, live in
// separate packages.
package config
