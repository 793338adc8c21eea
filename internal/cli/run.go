package cli

import (
	"fmt"
	"io"
)

// Handler runs the repostore command and returns its exit status.
//
// The main package sets it in init so tests can drive Run in-process with
// their own writers.
var Handler func(args []string, stdout, stderr io.Writer) int

// Run dispatches to Handler. It returns 1 when no handler is wired.
func Run(args []string, stdout, stderr io.Writer) int {
	if Handler == nil {
		fmt.Fprintln(stderr, "repostore: cli handler not configured")
		return 1
	}
	return Handler(args, stdout, stderr)
}
