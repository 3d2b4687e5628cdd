// Package main is the timeline-flow entry point.
package main

import (
	"os"

	"github.com/tltv/timeline-flow/internal/cli"
)

// Build-time metadata, injected via -ldflags.
var (
	version   = "0.1.0"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	cli.Version = version
	cli.BuildDate = buildDate
	cli.GitCommit = gitCommit

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
