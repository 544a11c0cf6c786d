// Package version carries build metadata set through -ldflags -X.
package version

var (
	// Version is the release tag, e.g. v0.4.0. Empty for local builds.
	Version = ""
	// Commit is the short git SHA.
	Commit = ""
	// Date is the RFC3339 build time in UTC.
	Date = ""
	// Dirty is "dirty" when built from a modified tree.
	Dirty = ""
)

// Info is the JSON shape served on /version and printed by the version command.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Dirty   string `json:"dirty" yaml:"dirty"`
	Display string `json:"display" yaml:"display"`
}

// Current returns the linked-in metadata.
func Current() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Dirty:   Dirty,
		Display: String(),
	}
}

// String is the short form shown in the dashboard footer: the release tag when
// set, otherwise dev-<sha> with a trailing * for dirty trees, otherwise "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if Commit == "" {
		return "dev"
	}
	s := "dev-" + Commit
	if Dirty == "dirty" {
		s += "*"
	}
	return s
}
