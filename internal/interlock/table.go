// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package interlock

// Row is one line of the transition table: the state reached from From by
// each operation. Wrong-code submissions are listed separately.
type Row struct {
	From        State
	Insert      State
	Remove      State
	ValidCode   State
	InvalidCode State
	Launch      State
	Fires       bool
}

// nopLauncher keeps table derivation free of side effects.
type nopLauncher struct{}

func (nopLauncher) Launch() {}

// Reach returns a controller driven into s along the shortest operation path.
func Reach(s State, opts ...Option) *Controller {
	c := New(append([]Option{WithLauncher(nopLauncher{})}, opts...)...)
	if s >= WaitingForSecondKey {
		c.InsertKey()
	}
	if s >= WaitingForUnlockCode {
		c.InsertKey()
	}
	if s >= WaitingForLaunchCommand {
		c.SubmitUnlockCode(UnlockCode)
	}
	if s >= Launched {
		c.SubmitLaunchCommand()
	}
	return c
}

// Table derives the transition table by applying every operation to a
// controller in every state.
func Table() []Row {
	rows := make([]Row, 0, len(States()))
	for _, s := range States() {
		row := Row{From: s}
		c := Reach(s)
		c.InsertKey()
		row.Insert = c.State()

		c = Reach(s)
		c.RemoveKey()
		row.Remove = c.State()

		c = Reach(s)
		c.SubmitUnlockCode(UnlockCode)
		row.ValidCode = c.State()

		c = Reach(s)
		c.SubmitUnlockCode(UnlockCode + "0")
		row.InvalidCode = c.State()

		c = Reach(s, WithObserver(func(t Transition) {
			if t.Launched {
				row.Fires = true
			}
		}))
		row.Fires = false
		c.SubmitLaunchCommand()
		row.Launch = c.State()

		rows = append(rows, row)
	}
	return rows
}
