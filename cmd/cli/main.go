// Package main is the entry point for the wc-rating CLI.
package main

import (
	"os"

	"wc-rating/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
