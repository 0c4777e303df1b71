// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the terminal operator panel for the interlock.
// This file defines the shared lipgloss styles.
package tui // import "github.com/toeirei/interlock/internal/tui"

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/interlock/internal/interlock"
)

const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorSpecial   = lipgloss.Color("208") // Orange
	colorError     = lipgloss.Color("196") // Bright red
	colorSuccess   = lipgloss.Color("40")  // Green
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	noticeStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	journalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorError).
			Bold(true).
			Padding(0, 2)
)

// stateStyle colours the state line by how close the interlock is to firing.
func stateStyle(s interlock.State) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case interlock.WaitingForFirstKey, interlock.WaitingForSecondKey:
		return base.Foreground(colorSubtle)
	case interlock.WaitingForUnlockCode:
		return base.Foreground(colorHighlight)
	case interlock.WaitingForLaunchCommand:
		return base.Foreground(colorSpecial)
	case interlock.Launched:
		return base.Foreground(colorError)
	}
	return base
}
