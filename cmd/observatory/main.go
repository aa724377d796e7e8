// Package main provides the entry point for the observatory CLI.
//
// observatory reads the committed open data snapshot, answers queries over it
// and renders the static observatory site at build time.
package main

import (
	"fmt"
	"os"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
