package update

import (
	"strconv"
	"strings"
)

// versionPrefixes is checked in order; at most one prefix is removed.
var versionPrefixes = []string{"v", "V", "version", "Version", "release-", "Release-", "ver", "Ver"}

// NormalizeVersion reduces a release label to dot-separated digits.
// It returns "" when the label contains no usable digits.
func NormalizeVersion(label string) string {
	v := strings.TrimSpace(label)

	for _, prefix := range versionPrefixes {
		if strings.HasPrefix(v, prefix) {
			v = v[len(prefix):]
			break
		}
	}

	if idx := strings.IndexByte(v, '-'); idx > 0 {
		v = v[:idx]
	}
	if idx := strings.IndexByte(v, '_'); idx > 0 {
		v = v[:idx]
	}

	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if c := v[i]; c == '.' || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}

	return strings.Trim(b.String(), ".")
}

// IsNewerVersion reports whether latest is strictly newer than installed.
// Labels that normalize to nothing are treated as not comparable and yield false.
func IsNewerVersion(installed, latest string) bool {
	return CompareVersions(installed, latest) < 0
}

// CompareVersions compares two release labels after normalization.
// Returns -1 if a < b, 0 if they are equal or either is not comparable, 1 if a > b.
func CompareVersions(a, b string) int {
	an := NormalizeVersion(a)
	bn := NormalizeVersion(b)
	if an == "" || bn == "" {
		return 0
	}

	ap := versionComponents(an)
	bp := versionComponents(bn)

	n := len(ap)
	if len(bp) > n {
		n = len(bp)
	}
	for i := 0; i < n; i++ {
		av, bv := componentAt(ap, i), componentAt(bp, i)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

// Comparable reports whether label normalizes to a non-empty version.
func Comparable(label string) bool {
	return NormalizeVersion(label) != ""
}

func versionComponents(normalized string) []int {
	parts := strings.Split(normalized, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

func componentAt(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
