package verify

import (
	"strings"

	"github.com/3leaps/repostore/internal/model"
)

// ChecksumCandidates are tried in order; {{asset}} is the APK file name and
// {{base}} the name without its ".apk" extension.
var ChecksumCandidates = []string{
	"{{asset}}.sha256",
	"{{asset}}.sha256.txt",
	"{{asset}}.sha512",
	"{{base}}.sha256",
	"{{base}}.sha256.txt",
	"SHA2-256SUMS",
	"SHA2-256SUMS.txt",
	"SHA256SUMS",
	"SHA256SUMS.txt",
	"SHA512SUMS",
	"SHA512SUMS.txt",
	"checksums.txt",
	"CHECKSUMS",
	"CHECKSUMS.txt",
}

const minisignExtension = ".minisig"

// FindChecksum returns the checksum asset covering assetName, or nil.
func FindChecksum(assets []model.Asset, assetName string) *model.Asset {
	base := assetName
	if strings.HasSuffix(strings.ToLower(base), ".apk") {
		base = base[:len(base)-len(".apk")]
	}
	r := strings.NewReplacer("{{asset}}", assetName, "{{base}}", base)
	for _, tpl := range ChecksumCandidates {
		name := r.Replace(tpl)
		for i := range assets {
			if strings.EqualFold(assets[i].Name, name) {
				return &assets[i]
			}
		}
	}
	return nil
}

// FindChecksumSignature looks for a minisign signature over checksumName.
func FindChecksumSignature(assets []model.Asset, checksumName string) *model.Asset {
	want := checksumName + minisignExtension
	for i := range assets {
		if assets[i].Name == want {
			return &assets[i]
		}
	}
	return nil
}
