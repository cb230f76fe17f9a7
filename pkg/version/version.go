// Package version supplies the small set of build-identity accessors
// the CLI passes to usage.WithApplicationVersion and friends, backed by
// runtime/debug build info where available.
package version

import "runtime/debug"

// Overridable at link time with:
//
//	go build -ldflags "-X github.com/lianatorpey/transplant/pkg/version.branch=... -X .../version.date=..."
var (
	branch = ""
	date   = ""
)

// Version returns the module version embedded by the Go toolchain, or
// "(devel)" when building from an unreleased checkout.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// Revision returns the VCS commit hash embedded in the build, if any.
func Revision() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// Branch returns the branch set via -ldflags, or "unknown" if unset.
func Branch() string {
	if branch == "" {
		return "unknown"
	}
	return branch
}

// Date returns the build date set via -ldflags, or the VCS commit time
// embedded in the build.
func Date() string {
	if date != "" {
		return date
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.time" {
				return s.Value
			}
		}
	}
	return "unknown"
}
