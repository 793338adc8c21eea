// Package update provides small, dependency-free helpers for deciding whether
// a published release is newer than what is installed.
//
// Release tags found on GitHub are free-form, so comparison starts with a
// permissive normalization instead of strict semver parsing.
//
// Version model
//   - One leading decoration is stripped: "v", "V", "version", "Version",
//     "release-", "Release-", "ver" or "Ver" (first match wins).
//   - Everything from the first '-' and then the first '_' is dropped, so
//     "v1.2.3-beta" and "1.2.3_rc1" both become "1.2.3".
//   - Remaining non-digit characters are removed and the result is compared as
//     dot-separated integers, padding the shorter side with zeros.
//   - Pre-release suffixes carry no precedence: "1.0.0" and "1.0.0-rc1"
//     compare as equal.
//   - A label with no digits cannot be compared and is never reported as newer.
package update
