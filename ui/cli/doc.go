// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for the interlock using
// Cobra. It wires configuration, logging, localisation and telemetry, builds
// the controller, and hands it to the TUI or the script runner. CLI code
// should remain thin and delegate behaviour to the internal packages.
package cli
