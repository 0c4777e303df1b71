// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for the interlock console.
//
// Usage:
//
//	go run . [flags]
//	./interlock [flags]
//	./interlock run insert insert code 1234 launch
//
// See --help for options.
package main

import (
	"os"

	"github.com/toeirei/interlock/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// The error is already printed by Cobra.
		os.Exit(1)
	}
}
