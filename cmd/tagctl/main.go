// Command tagctl manages concept name tags from the command line: schema
// migrations, dry-run validation and the tag lifecycle. It works on the same
// store and validator registry as the HTTP service.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Build-time variables, injected via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Rejected tags have already been reported on stdout.
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}
