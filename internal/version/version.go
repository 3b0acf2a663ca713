// Package version reports the version of the tmipsasm module this binary was built from.
package version

import "runtime/debug"

// Default is returned when the module version is unknown, such as when built from a source checkout.
const Default = "dev"

// modulePath is the main module, also used when tmipsasm is a dependency of another binary.
const modulePath = "github.com/tmips/tmipsasm"

// GetVersion returns the module version from the build info.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Default
	}
	return versionOf(info)
}

func versionOf(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath {
		return normalize(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return normalize(dep.Version)
		}
	}
	return Default
}

func normalize(v string) string {
	if v == "" || v == "(devel)" {
		return Default
	}
	return v
}
