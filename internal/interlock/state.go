// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package interlock

import (
	"fmt"
	"strings"
)

// State is the single active state of a Controller.
type State int

const (
	WaitingForFirstKey State = iota
	WaitingForSecondKey
	WaitingForUnlockCode
	WaitingForLaunchCommand
	Launched
)

var stateNames = [...]string{
	WaitingForFirstKey:      "WAITING_FOR_FIRST_KEY",
	WaitingForSecondKey:     "WAITING_FOR_SECOND_KEY",
	WaitingForUnlockCode:    "WAITING_FOR_UNLOCK_CODE",
	WaitingForLaunchCommand: "WAITING_FOR_LAUNCH_COMMAND",
	Launched:                "LAUNCHED",
}

// States lists every state in declaration order.
func States() []State {
	return []State{WaitingForFirstKey, WaitingForSecondKey, WaitingForUnlockCode, WaitingForLaunchCommand, Launched}
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no operation can leave s.
func (s State) Terminal() bool {
	return s == Launched
}

// ParseState maps a canonical state name (case-insensitive) back to a State.
func ParseState(name string) (State, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

// Operation identifies one of the four controller operations.
type Operation int

const (
	InsertKey Operation = iota
	RemoveKey
	SubmitUnlockCode
	SubmitLaunchCommand
)

func (o Operation) String() string {
	switch o {
	case InsertKey:
		return "insert-key"
	case RemoveKey:
		return "remove-key"
	case SubmitUnlockCode:
		return "submit-unlock-code"
	case SubmitLaunchCommand:
		return "submit-launch-command"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Transition describes the effect of one operation. Ignored operations are
// reported too, with From == To.
type Transition struct {
	Op       Operation
	From     State
	To       State
	Launched bool
}

// Changed reports whether the operation moved the controller.
func (t Transition) Changed() bool {
	return t.From != t.To
}

func (t Transition) String() string {
	if !t.Changed() {
		return fmt.Sprintf("%s: %s (ignored)", t.Op, t.From)
	}
	return fmt.Sprintf("%s: %s -> %s", t.Op, t.From, t.To)
}
