package release

import (
	"errors"
	"fmt"
	"strings"

	"github.com/3leaps/repostore/internal/model"
	"github.com/3leaps/repostore/pkg/apk"
)

// ErrNoAPK is returned when a release carries no .apk asset.
var ErrNoAPK = errors.New("release has no APK asset")

// PickAPK selects the release asset best suited to abis.
func PickAPK(rel *model.Release, abis []string) (*model.Asset, apk.Selection, error) {
	if rel == nil {
		return nil, apk.Selection{Index: -1, Reason: apk.ReasonNone}, ErrNoAPK
	}
	sel := apk.Select(rel.AssetNames(), abis)
	if !sel.Found() {
		return nil, sel, fmt.Errorf("%s: %w", displayTag(rel), ErrNoAPK)
	}
	return &rel.Assets[sel.Index], sel, nil
}

// CompatibleAPKs lists the APK assets IsAPKCompatible accepts for abis.
func CompatibleAPKs(rel *model.Release, abis []string) []model.Asset {
	var out []model.Asset
	for _, a := range rel.Assets {
		if !isAPK(a.Name) {
			continue
		}
		if apk.IsAPKCompatible(a.Name, abis) {
			out = append(out, a)
		}
	}
	return out
}

func displayTag(rel *model.Release) string {
	if rel.TagName != "" {
		return rel.TagName
	}
	if rel.Name != "" {
		return rel.Name
	}
	return "release"
}

func isAPK(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".apk")
}
