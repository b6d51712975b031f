package utils

import (
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// FormatVersionForDisplay renders a build version with a single "v" prefix.
// Valid semantic versions are normalized ("1.2" becomes "v1.2.0"); anything
// else, like a git describe string, is shown as given.
func FormatVersionForDisplay(version string) string {
	if version == "" {
		return "unknown"
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(version, "v"), "V")
	if v, err := semver.NewVersion(trimmed); err == nil {
		return "v" + v.String()
	}
	if version == "dev" {
		return version
	}
	return "v" + trimmed
}
