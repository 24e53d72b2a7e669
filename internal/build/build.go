// Package build holds build-time information.
package build

// Version is reported as the instrumentation version of traces and metrics.
// It defaults to "dev" and is set with -ldflags "-X go.trai.ch/mirror/internal/build.Version=...".
var Version = "dev"
