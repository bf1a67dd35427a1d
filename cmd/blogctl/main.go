// Command blogctl reads and edits blogs on a blogbook server from the terminal.
package main

import (
	"fmt"
	"os"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
