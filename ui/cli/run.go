// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/interlock/internal/console"
	"github.com/toeirei/interlock/internal/interlock"
)

// ErrUnexpectedState is returned by run when --expect does not match.
var ErrUnexpectedState = errors.New("unexpected final state")

func newRunCmd() *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "run OPERATION...",
		Short: "Apply a sequence of operations to a fresh controller",
		Long: `Applies the given operations in order to a fresh controller and prints
each transition. Operations:

  insert            insert a key (alias: insert-key)
  remove            remove a key (alias: remove-key)
  code VALUE        submit an unlock code (also: code=VALUE)
  launch            submit the launch command
  state             print the current state`,
		Example: `  interlock run insert insert code 1234 launch --expect LAUNCHED
  interlock run insert code=1234 --launcher dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want interlock.State
			if expect != "" {
				s, err := interlock.ParseState(expect)
				if err != nil {
					return err
				}
				want = s
			}

			cmds, err := console.Parse(args, 1)
			if err != nil {
				return err
			}
			ctrl, err := newController()
			if err != nil {
				return err
			}
			final, err := console.Run(ctrl, cmds, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if expect != "" && final != want {
				return fmt.Errorf("%w: got %s, want %s", ErrUnexpectedState, final, want)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the controller ends in this state")
	return cmd
}
