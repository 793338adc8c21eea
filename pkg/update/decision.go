package update

import (
	"fmt"
	"strings"
)

// Decision is what DecideUpdate offers the user for a release.
type Decision string

const (
	DecisionInstall  Decision = "install"  // Nothing installed yet
	DecisionUpdate   Decision = "update"   // Latest release is newer
	DecisionUpToDate Decision = "uptodate" // Installed version is current (or newer)
	DecisionUnknown  Decision = "unknown"  // A version label could not be compared
)

// FormatVersionDisplay formats a version string for display, adding "v" prefix
// when the label starts with a digit.
func FormatVersionDisplay(v string) string {
	t := strings.TrimSpace(v)
	if t == "" {
		return t
	}
	if t[0] >= '0' && t[0] <= '9' {
		return "v" + t
	}
	return t
}

// DecideUpdate determines what to offer the user for a release.
//
// installed: version label of the installed app ("" when not installed)
// latest:    tag of the release being considered (e.g. "v1.4.0")
//
// Returns a Decision and a human message.
func DecideUpdate(installed, latest string) (Decision, string) {
	if strings.TrimSpace(installed) == "" {
		return DecisionInstall, fmt.Sprintf("Not installed; %s is available", FormatVersionDisplay(latest))
	}

	if !Comparable(installed) || !Comparable(latest) {
		msg := fmt.Sprintf("Version comparison skipped (installed=%q, latest=%q)", installed, latest)
		return DecisionUnknown, msg
	}

	if IsNewerVersion(installed, latest) {
		msg := fmt.Sprintf("Update available: %s → %s",
			FormatVersionDisplay(NormalizeVersion(installed)), FormatVersionDisplay(NormalizeVersion(latest)))
		return DecisionUpdate, msg
	}

	msg := fmt.Sprintf("Already up to date (%s installed, latest %s)",
		FormatVersionDisplay(NormalizeVersion(installed)), FormatVersionDisplay(NormalizeVersion(latest)))
	return DecisionUpToDate, msg
}

// DescribeDecision returns a human-readable dry-run status.
func DescribeDecision(d Decision) string {
	switch d {
	case DecisionInstall:
		return "Not installed (install available)"
	case DecisionUpdate:
		return "Update available"
	case DecisionUpToDate:
		return "Already at latest version (no update needed)"
	case DecisionUnknown:
		return "Version unknown (comparison skipped)"
	default:
		return string(d)
	}
}
