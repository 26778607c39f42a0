// Package schema holds the HCL decoding targets for job files.
package schema

import "github.com/hashicorp/hcl/v2"

// JobFile is the top-level structure of an HCL job file.
type JobFile struct {
	Jobs []*Job `hcl:"job,block"`
}

// Job represents a `job` block: one song and the effects to apply to it.
type Job struct {
	Name     string    `hcl:"name,label"`
	Song     string    `hcl:"song,optional"`
	Output   string    `hcl:"output,optional"`
	Backend  *Backend  `hcl:"backend,block"`
	Progress *Progress `hcl:"progress,block"`
	Effects  []*Effect `hcl:"effect,block"`
}

// Backend represents the optional `backend` block of a job.
type Backend struct {
	URL      string `hcl:"url,optional"`
	Endpoint string `hcl:"endpoint,optional"`
	Timeout  string `hcl:"timeout,optional"`
}

// Progress represents the optional `progress` block of a job.
type Progress struct {
	URL                string `hcl:"url,optional"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// Effect represents an `effect` block. Its attributes are the effect's
// parameters, so they are kept as a raw body and evaluated one by one.
type Effect struct {
	Type   string   `hcl:"type,label"`
	Params hcl.Body `hcl:",remain"`
}
