package main

import (
	"fmt"
	"os"
)

// Set by -ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
