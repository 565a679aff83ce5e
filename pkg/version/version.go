// Package version exposes build version metadata.
package version

// Version is the module version, overridable at build time via
// -ldflags "-X github.com/gridline/gridline/pkg/version.Version=...".
var Version = "dev"
