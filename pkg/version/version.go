// Package version reports the build version of lazygrid.
package version

import "runtime/debug"

// version is set at build time with
// -ldflags "-X github.com/rshade/lazygrid/pkg/version.version=v1.2.3".
var version = "" //nolint:gochecknoglobals // Set via ldflags

const develVersion = "0.0.0-dev"

// GetVersion returns the linker-provided version, the module version from the
// build info, or a development placeholder.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return develVersion
}
