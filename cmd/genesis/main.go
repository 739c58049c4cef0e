// Package main is the entry point for the genesis CLI.
//
// genesis creates a single cloud VM, opens HTTP access to it and waits until
// it answers over SSH.
//
// For detailed usage information, run:
//
//	genesis --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/genesis/cmd/genesis/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
