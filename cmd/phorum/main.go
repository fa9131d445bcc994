// Package main is the entry point for the phorum CLI tool.
package main

import (
	"os"

	"github.com/scoreforum/phorum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
