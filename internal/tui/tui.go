// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/interlock/internal/interlock"
)

// Run starts the operator panel for op and blocks until the operator quits.
func Run(op interlock.Operator) error {
	_, err := tea.NewProgram(
		newPanelModel(op),
		tea.WithAltScreen(),
	).Run()
	return err
}
