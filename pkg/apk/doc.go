// Package apk picks the release asset that best fits an Android device.
//
// Selection works purely on filenames. Each known ABI family has a set of
// aliases that release authors use in APK names ("arm64", "aarch64",
// "armeabi-v7a", ...). An alias counts as present when it touches one of the
// separators '-', '_' or '.' on either side, which approximates token matching
// without a tokenizer and occasionally produces false positives (for example
// the armeabi-v7a alias "arm" also matches "app-arm64.apk").
//
// Selection order
//   - A single APK is returned as-is.
//   - Device ABIs are tried in the caller's order; the first ABI with a
//     matching candidate wins, and candidate order breaks ties.
//   - Universal builds ("universal", "all", "fat", "noarch") come next.
//   - Otherwise the first APK is assumed to be an unlabeled universal build.
//
// IsAPKCompatible deliberately uses a different policy: a file that carries no
// recognised architecture token at all is reported as compatible.
//
// The package has no dependencies and no mutable state; every function is safe
// for concurrent use.
package apk
