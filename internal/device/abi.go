package device

import (
	"runtime"
	"strings"
)

// hostABITable maps GOARCH to the Android ABIs such a CPU can run, most
// precise first.
var hostABITable = map[string][]string{
	"arm64": {"arm64-v8a", "armeabi-v7a"},
	"arm":   {"armeabi-v7a"},
	"amd64": {"x86_64", "x86"},
	"386":   {"x86"},
}

// HostABIs returns the ABI preference list for the running binary's GOARCH.
func HostABIs() []string {
	return ABIsForArch(runtime.GOARCH)
}

// ABIsForArch returns the ABI preference list for goarch, or nil if unknown.
func ABIsForArch(goarch string) []string {
	abis, ok := hostABITable[strings.ToLower(goarch)]
	if !ok {
		return nil
	}
	return append([]string(nil), abis...)
}

// ParseABIList splits a comma-separated list, lower-casing entries and
// dropping blanks and duplicates while keeping order.
func ParseABIList(value string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(value, ",") {
		abi := strings.ToLower(strings.TrimSpace(part))
		if abi == "" {
			continue
		}
		if _, dup := seen[abi]; dup {
			continue
		}
		seen[abi] = struct{}{}
		out = append(out, abi)
	}
	return out
}

// Resolve picks the first non-empty ABI list: explicit flag value, then
// configured list, then the host default.
func Resolve(flagValue string, configured []string) []string {
	if abis := ParseABIList(flagValue); len(abis) > 0 {
		return abis
	}
	if abis := ParseABIList(strings.Join(configured, ",")); len(abis) > 0 {
		return abis
	}
	return HostABIs()
}
