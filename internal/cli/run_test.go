package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRunWithoutHandler(t *testing.T) {
	saved := Handler
	Handler = nil
	defer func() { Handler = saved }()

	var stderr bytes.Buffer
	if code := Run(nil, io.Discard, &stderr); code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	if !strings.Contains(stderr.String(), "not configured") {
		t.Fatalf("stderr: got %q", stderr.String())
	}
}

func TestRunDelegates(t *testing.T) {
	saved := Handler
	defer func() { Handler = saved }()

	var gotArgs []string
	Handler = func(args []string, stdout, stderr io.Writer) int {
		gotArgs = args
		return 7
	}
	if code := Run([]string{"--version"}, io.Discard, io.Discard); code != 7 {
		t.Fatalf("exit code: got %d want 7", code)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "--version" {
		t.Fatalf("args: got %v", gotArgs)
	}
}
