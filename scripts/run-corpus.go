// run-corpus checks repostore's APK selection against real GitHub releases.
//
// Usage: go run scripts/run-corpus.go --manifest testdata/corpus.json --repostore-bin ./repostore
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type corpusEntry struct {
	Repo         string   `json:"repo"`
	Tag          string   `json:"tag"`
	ABIs         []string `json:"abis"`
	ExpectAsset  string   `json:"expectAsset"`
	ExpectReason string   `json:"expectReason"`
	Tier         string   `json:"tier"`
	Note         string   `json:"note"`
}

// selection mirrors the fields of repostore --json output that the corpus checks.
type selection struct {
	Asset  string `json:"asset"`
	Reason string `json:"reason"`
	ABI    string `json:"abi"`
}

type result struct {
	Repo    string `json:"repo"`
	Tag     string `json:"tag"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Reason  string `json:"reason"`
	Tier    string `json:"tier"`
	Status  string `json:"status"`
	Note    string `json:"note,omitempty"`
	Output  string `json:"output,omitempty"`
	ExitErr string `json:"exitErr,omitempty"`
}

func main() {
	manifestPath := flag.String("manifest", "testdata/corpus.json", "path to corpus manifest")
	binFlag := flag.String("repostore-bin", "", "path to repostore binary to run")
	includeSlow := flag.Bool("include-slow", false, "include slow entries")
	flag.Parse()

	manifest := firstSet(*manifestPath, os.Getenv("CORPUS_MANIFEST"))
	bin := firstSet(*binFlag, os.Getenv("CORPUS_REPOSTORE_BIN"), "repostore")

	entries, err := loadManifest(manifest)
	if err != nil {
		fatalf("load manifest: %v", err)
	}
	if err := validateEntries(entries); err != nil {
		fatalf("manifest validation failed: %v", err)
	}

	var failures int
	for _, e := range entries {
		if strings.EqualFold(e.Tier, "slow") && !*includeSlow {
			continue
		}
		r := runEntry(e, bin)
		if r.Status != "pass" {
			failures++
		}
		fmt.Printf("[%s] %s@%s want=%s got=%s reason=%s tier=%s", strings.ToUpper(r.Status), r.Repo, r.Tag, r.Want, r.Got, r.Reason, r.Tier)
		if r.Note != "" {
			fmt.Printf(" note=%s", r.Note)
		}
		fmt.Println()
		if r.Status != "pass" && strings.TrimSpace(r.Output) != "" {
			fmt.Printf("  output:\n%s\n", r.Output)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func runEntry(e corpusEntry, bin string) result {
	args := []string{"--repo", e.Repo, "--tag", e.Tag, "--dry-run", "--json", "--log-level", "error"}
	if len(e.ABIs) > 0 {
		args = append(args, "--abi", strings.Join(e.ABIs, ","))
	}

	res := result{Repo: e.Repo, Tag: e.Tag, Want: e.ExpectAsset, Tier: e.Tier, Note: e.Note, Status: "fail"}

	cmd := exec.Command(bin, args...)
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	res.Output = string(out)
	if err != nil {
		res.ExitErr = err.Error()
		return res
	}

	var sel selection
	if err := json.Unmarshal(out, &sel); err != nil {
		res.ExitErr = fmt.Sprintf("decode output: %v", err)
		return res
	}
	res.Got = sel.Asset
	res.Reason = sel.Reason

	if sel.Asset == e.ExpectAsset && (e.ExpectReason == "" || sel.Reason == e.ExpectReason) {
		res.Status = "pass"
	}
	return res
}

func loadManifest(path string) ([]corpusEntry, error) {
	f, err := os.Open(path) // #nosec G304 -- test harness manifest path
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file, close error non-critical

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var entries []corpusEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func validateEntries(entries []corpusEntry) error {
	for i, e := range entries {
		if strings.Count(strings.TrimSpace(e.Repo), "/") != 1 {
			return fmt.Errorf("entry %d: repo must be owner/name", i)
		}
		if strings.TrimSpace(e.Tag) == "" {
			return fmt.Errorf("entry %d: tag is required", i)
		}
		if strings.TrimSpace(e.ExpectAsset) == "" {
			return fmt.Errorf("entry %d: expectAsset is required", i)
		}
		switch e.ExpectReason {
		case "", "single", "abi", "universal", "fallback":
		default:
			return fmt.Errorf("entry %d: expectReason must be single, abi, universal or fallback", i)
		}
		if e.Tier != "fast" && e.Tier != "slow" {
			return fmt.Errorf("entry %d: tier must be fast or slow", i)
		}
	}
	return nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
