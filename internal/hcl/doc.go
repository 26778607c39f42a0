// Package hcl provides the HCL implementation of config.Loader. It is
// responsible for parsing job files, evaluating expressions against the
// process environment, and translating the result into the
// format-agnostic job model.
package hcl
