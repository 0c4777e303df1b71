// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/toeirei/interlock/internal/i18n"
	"github.com/toeirei/interlock/internal/interlock"
)

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "Print the controller transition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable(interlock.Table()))
			return err
		},
	}
}

func renderTable(rows []interlock.Row) string {
	cell := func(from, to interlock.State) string {
		if from == to {
			return i18n.T("table.unchanged")
		}
		return "→ " + to.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(
			i18n.T("table.state"),
			i18n.T("table.insert"),
			i18n.T("table.remove"),
			i18n.T("table.valid_code"),
			i18n.T("table.invalid_code"),
			i18n.T("table.launch"),
		)
	for _, r := range rows {
		launch := cell(r.From, r.Launch)
		if r.Fires {
			launch = i18n.T("table.fires", r.Launch)
		}
		invalid := cell(r.From, r.InvalidCode)
		if r.From == interlock.WaitingForUnlockCode && r.InvalidCode == r.From {
			invalid = i18n.T("table.stays")
		}
		t.Row(
			r.From.String(),
			cell(r.From, r.Insert),
			cell(r.From, r.Remove),
			cell(r.From, r.ValidCode),
			invalid,
			launch,
		)
	}
	return t.String()
}
