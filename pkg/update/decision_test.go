package update

import (
	"strings"
	"testing"
)

func TestDecideUpdate(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		latest    string
		wantDec   Decision
	}{
		{"not installed", "", "v1.0.0", DecisionInstall},
		{"whitespace installed counts as missing", "   ", "v1.0.0", DecisionInstall},
		{"newer release", "1.2.3", "v1.2.4", DecisionUpdate},
		{"numeric not lexicographic", "1.9.9", "v1.10.0", DecisionUpdate},
		{"same version", "v2.0.0", "2.0.0", DecisionUpToDate},
		{"padded equal", "1.0", "1.0.0", DecisionUpToDate},
		{"installed newer", "2.1.0", "v2.0.9", DecisionUpToDate},
		{"prerelease ignored", "1.0.0", "v1.0.0-rc1", DecisionUpToDate},
		{"unparseable latest", "1.0.0", "nightly", DecisionUnknown},
		{"unparseable installed", "dev", "v1.0.0", DecisionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, msg := DecideUpdate(tt.installed, tt.latest)
			if dec != tt.wantDec {
				t.Fatalf("decision = %v, want %v (msg: %s)", dec, tt.wantDec, msg)
			}
			if msg == "" {
				t.Fatal("message should not be empty")
			}
		})
	}
}

func TestFormatVersionDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0.2.5", "v0.2.5"},
		{"v0.2.5", "v0.2.5"},
		{"release-1.0", "release-1.0"},
		{"", ""},
		{" 1.0 ", "v1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatVersionDisplay(tt.input)
			if got != tt.want {
				t.Fatalf("FormatVersionDisplay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDescribeDecision(t *testing.T) {
	tests := []struct {
		decision     Decision
		wantContains string
	}{
		{DecisionInstall, "install"},
		{DecisionUpdate, "available"},
		{DecisionUpToDate, "latest"},
		{DecisionUnknown, "unknown"},
		{Decision("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			got := DescribeDecision(tt.decision)
			if !strings.Contains(strings.ToLower(got), strings.ToLower(tt.wantContains)) {
				t.Fatalf("DescribeDecision(%v) = %q, want to contain %q", tt.decision, got, tt.wantContains)
			}
		})
	}
}
