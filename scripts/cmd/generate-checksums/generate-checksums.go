// Command generate-checksums writes the checksum files repostore looks for
// next to the APKs of a release directory: consolidated SHA256SUMS style
// listings, per-APK sidecars, or both.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/3leaps/repostore/internal/verify"
)

const (
	layoutSums    = "sums"
	layoutSidecar = "sidecar"
	layoutBoth    = "both"
)

type generator struct {
	dir     string
	algos   []string
	sums    bool
	sidecar bool
	logger  *log.Logger
}

func main() {
	dir := flag.String("dir", "dist/release", "directory containing release APKs")
	algos := flag.String("algos", "sha256,sha512", "comma-separated hash algorithms (sha256, sha512)")
	layout := flag.String("layout", layoutSums, "checksum layout: sums, sidecar or both")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "generate-checksums"})
	g, err := newGenerator(*dir, *algos, *layout, logger)
	if err == nil {
		_, err = g.run()
	}
	if err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}

func newGenerator(dir, algoList, layout string, logger *log.Logger) (*generator, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("directory is required")
	}
	if fi, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("release dir: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	algos, err := parseAlgos(algoList)
	if err != nil {
		return nil, err
	}

	g := &generator{dir: dir, algos: algos, logger: logger}
	switch layout {
	case layoutSums:
		g.sums = true
	case layoutSidecar:
		g.sidecar = true
	case layoutBoth:
		g.sums, g.sidecar = true, true
	default:
		return nil, fmt.Errorf("unknown layout %q", layout)
	}
	if logger == nil {
		g.logger = log.New(io.Discard)
	}
	return g, nil
}

func parseAlgos(list string) ([]string, error) {
	var algos []string
	for _, raw := range strings.Split(list, ",") {
		algo := strings.ToLower(strings.TrimSpace(raw))
		if algo == "" || contains(algos, algo) {
			continue
		}
		if algo != "sha256" && algo != "sha512" {
			return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
		}
		algos = append(algos, algo)
	}
	if len(algos) == 0 {
		return nil, errors.New("no hash algorithms given")
	}
	return algos, nil
}

// run hashes every APK once per algorithm and returns the files it wrote.
func (g *generator) run() ([]string, error) {
	apks, err := g.listAPKs()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, algo := range g.algos {
		digests := make(map[string]string, len(apks))
		for _, name := range apks {
			sum, err := verify.FileDigest(filepath.Join(g.dir, name), algo)
			if err != nil {
				return written, err
			}
			digests[name] = sum
		}

		if g.sums {
			out, err := checksumFileName(algo, "")
			if err != nil {
				return written, err
			}
			if err := g.write(out, apks, digests); err != nil {
				return written, err
			}
			written = append(written, out)
		}
		if g.sidecar {
			for _, name := range apks {
				out, err := checksumFileName(algo, name)
				if err != nil {
					return written, err
				}
				if err := g.write(out, []string{name}, digests); err != nil {
					return written, err
				}
				written = append(written, out)
			}
		}
	}
	return written, nil
}

// listAPKs returns the sorted APK and app bundle names in the release dir.
func (g *generator) listAPKs() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var apks []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.HasSuffix(lower, ".apk") || strings.HasSuffix(lower, ".aab") {
			apks = append(apks, e.Name())
		}
	}
	if len(apks) == 0 {
		return nil, fmt.Errorf("no APKs found in %s", g.dir)
	}
	sort.Strings(apks)
	return apks, nil
}

func (g *generator) write(name string, apks []string, digests map[string]string) error {
	var b strings.Builder
	for _, apk := range apks {
		fmt.Fprintf(&b, "%s  %s\n", digests[apk], apk)
	}
	path := filepath.Join(g.dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { // #nosec G306 -- published release metadata
		return fmt.Errorf("write %s: %w", name, err)
	}
	g.logger.Info("wrote", "file", path, "entries", len(apks))
	return nil
}

// checksumFileName picks the first name verify.FindChecksum accepts for algo.
// An empty asset selects the consolidated listing, otherwise the sidecar of
// that asset.
func checksumFileName(algo, asset string) (string, error) {
	for _, tpl := range verify.ChecksumCandidates {
		perAsset := strings.Contains(tpl, "{{asset}}")
		if perAsset != (asset != "") || strings.Contains(tpl, "{{base}}") {
			continue
		}
		name := strings.ReplaceAll(tpl, "{{asset}}", asset)
		if verify.DetectChecksumAlgorithm(name, "") != algo {
			continue
		}
		if perAsset && !strings.HasSuffix(name, "."+algo) {
			continue
		}
		if !perAsset && strings.Contains(name, "-") {
			continue
		}
		return name, nil
	}
	return "", fmt.Errorf("no %s checksum file name for %q", algo, asset)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
