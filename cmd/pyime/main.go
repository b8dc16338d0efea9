// Package main is the entry point for the pyime CLI.
package main

import (
	"os"

	"github.com/f3rmion/pyime/cmd/pyime/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
