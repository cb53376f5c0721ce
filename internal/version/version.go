// Package version exposes build identification for the CLI and the gateway.
package version

import "runtime/debug"

var (
	// Version is set at build time via -ldflags. Falls back to the module
	// version embedded by go install.
	Version = "dev"

	// Commit is the VCS revision the binary was built from, when known.
	Commit = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	if Commit == "" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Commit = setting.Value
				break
			}
		}
	}
}

// String returns the version, with the short commit appended when available.
func String() string {
	if len(Commit) >= 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}
