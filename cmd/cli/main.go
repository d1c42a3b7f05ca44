// Package main is the entry point for the astrochart CLI.
package main

import (
	"os"

	"astrochart/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
