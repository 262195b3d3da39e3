// Package version reports the docset binary version.
package version

import "runtime/debug"

// Set at link time:
// go build -ldflags "-X git.home.luguber.info/inful/docsetbuild/internal/version.Version=v0.3.0".
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Resolved returns Version, falling back to the module version recorded by
// `go install` and then to the VCS revision embedded by the toolchain.
func Resolved() (version, commit string) {
	version, commit = Version, GitCommit
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if version == "unknown" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if commit == "unknown" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				commit = s.Value
			}
		}
	}
	return version, commit
}

// String renders the version line printed by --version.
func String() string {
	v, c := Resolved()
	return v + " (commit " + c + ", built " + BuildTime + ")"
}
