package apk

import (
	"strings"
)

// Reason explains how a Selection was made.
type Reason string

const (
	ReasonNone      Reason = "none"      // No APK among the candidates
	ReasonSingle    Reason = "single"    // Only one APK, returned without matching
	ReasonABI       Reason = "abi"       // Matched an alias of a device ABI
	ReasonUniversal Reason = "universal" // Matched a universal-build pattern
	ReasonFallback  Reason = "fallback"  // Nothing matched; first APK assumed universal
)

// Selection is the outcome of Select.
type Selection struct {
	Index  int    // index into the names passed to Select, -1 for ReasonNone
	Name   string // selected filename, empty for ReasonNone
	Reason Reason
	ABI    string // device ABI that matched, only set for ReasonABI
}

// Found reports whether an asset was selected.
func (s Selection) Found() bool {
	return s.Index >= 0
}

var abiAliasTable = map[string][]string{
	"arm64-v8a":   {"arm64-v8a", "arm64", "aarch64", "arm64_v8a"},
	"armeabi-v7a": {"armeabi-v7a", "armeabi_v7a", "armv7", "arm-v7a", "arm"},
	"x86_64":      {"x86_64", "x86-64", "amd64"},
	"x86":         {"x86", "i686", "i386"},
}

// knownABIs fixes iteration order over abiAliasTable.
var knownABIs = []string{"arm64-v8a", "armeabi-v7a", "x86_64", "x86"}

var universalPatterns = []string{"universal", "all", "fat", "noarch"}

const apkExtension = ".apk"

// KnownABIs returns the ABI families the selector recognises.
func KnownABIs() []string {
	return append([]string(nil), knownABIs...)
}

// Aliases returns the filename aliases for abi, or nil when abi is unknown.
func Aliases(abi string) []string {
	aliases, ok := abiAliasTable[normalizeABI(abi)]
	if !ok {
		return nil
	}
	return append([]string(nil), aliases...)
}

// SelectBestAPK returns the APK filename that best fits deviceABIs.
// The boolean is false when names contains no APK.
func SelectBestAPK(names []string, deviceABIs []string) (string, bool) {
	sel := Select(names, deviceABIs)
	return sel.Name, sel.Found()
}

// Select runs the selection and reports which candidate won and why.
func Select(names []string, deviceABIs []string) Selection {
	candidates := apkCandidates(names)
	if len(candidates) == 0 {
		return Selection{Index: -1, Reason: ReasonNone}
	}
	if len(candidates) == 1 {
		return pick(names, candidates[0], ReasonSingle, "")
	}

	for _, abi := range deviceABIs {
		aliases, ok := abiAliasTable[normalizeABI(abi)]
		if !ok {
			continue
		}
		if idx, ok := firstMatch(names, candidates, aliases); ok {
			return pick(names, idx, ReasonABI, normalizeABI(abi))
		}
	}

	if idx, ok := firstMatch(names, candidates, universalPatterns); ok {
		return pick(names, idx, ReasonUniversal, "")
	}

	return pick(names, candidates[0], ReasonFallback, "")
}

// IsAPKCompatible reports whether name is likely to run on a device with the
// given ABIs. Names without any recognised architecture token are treated as
// universal.
func IsAPKCompatible(name string, deviceABIs []string) bool {
	if matchesAny(name, universalPatterns) {
		return true
	}
	for _, abi := range deviceABIs {
		if aliases, ok := abiAliasTable[normalizeABI(abi)]; ok && matchesAny(name, aliases) {
			return true
		}
	}
	for _, abi := range knownABIs {
		if matchesAny(name, abiAliasTable[abi]) {
			return false
		}
	}
	return true
}

func apkCandidates(names []string) []int {
	var out []int
	for i, name := range names {
		if strings.HasSuffix(strings.ToLower(name), apkExtension) {
			out = append(out, i)
		}
	}
	return out
}

func firstMatch(names []string, candidates []int, patterns []string) (int, bool) {
	for _, idx := range candidates {
		if matchesAny(names[idx], patterns) {
			return idx, true
		}
	}
	return 0, false
}

func pick(names []string, idx int, reason Reason, abi string) Selection {
	return Selection{Index: idx, Name: names[idx], Reason: reason, ABI: abi}
}

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if containsToken(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// containsToken checks the six separator forms around token. Both arguments
// must already be lower-cased.
func containsToken(name, token string) bool {
	if token == "" {
		return false
	}
	for _, sep := range []string{"-", "_", "."} {
		if strings.Contains(name, sep+token) || strings.Contains(name, token+sep) {
			return true
		}
	}
	return false
}

func normalizeABI(abi string) string {
	return strings.ToLower(strings.TrimSpace(abi))
}
