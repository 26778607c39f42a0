// Package version reports the build version of beatfx.
package version

import "os"

// Version is overridden at build time with
// -ldflags "-X github.com/vk/beatfx/internal/version.Version=v1.2.3".
var Version = "dev"

// String returns the build version, preferring a VERSION environment
// variable over the compiled-in value.
func String() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return Version
}
