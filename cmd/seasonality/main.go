package main

import (
	"os"

	"github.com/wonny/seasonality/cmd/seasonality/commands"
)

// main is the entry point for the seasonality CLI
// ⭐ single CLI entry point: go run ./cmd/seasonality [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
