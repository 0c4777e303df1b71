// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package interlock implements the two-key launch interlock: two physical
// keys, an unlock code and an explicit launch command must arrive in order
// before the launcher fires. Every operation is total; actions that arrive
// at the wrong time are ignored and the caller observes that through State.
//
// A Controller is not safe for concurrent use. Embedders that drive it from
// several goroutines must guard each instance with their own lock.
package interlock

import (
	"github.com/toeirei/interlock/internal/launcher"
	"github.com/toeirei/interlock/internal/logging"
)

// UnlockCode is the code accepted by SubmitUnlockCode.
const UnlockCode = "1234"

const requiredKeys = 2

// Launcher is the external launch capability. Launch is called at most once
// per Controller, synchronously from SubmitLaunchCommand.
type Launcher interface {
	Launch()
}

// Operator is the operation surface of a Controller. Operator consoles
// depend on this rather than on *Controller.
type Operator interface {
	InsertKey()
	RemoveKey()
	SubmitUnlockCode(code string)
	SubmitLaunchCommand()
	State() State
}

// Observer receives a Transition after every operation.
type Observer func(Transition)

// Option configures a Controller at construction.
type Option func(*Controller)

// WithLauncher replaces the default production launcher.
func WithLauncher(l Launcher) Option {
	return func(c *Controller) {
		if l != nil {
			c.launcher = l
		}
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// Controller is the interlock state machine.
type Controller struct {
	state     State
	keyCount  int
	launcher  Launcher
	observers []Observer
}

// *Controller implements Operator
var _ Operator = (*Controller)(nil)

// New returns a controller waiting for its first key. Without WithLauncher
// it fires a launcher.Silo logging through the package logger.
func New(opts ...Option) *Controller {
	c := &Controller{state: WaitingForFirstKey}
	for _, opt := range opts {
		opt(c)
	}
	if c.launcher == nil {
		c.launcher = launcher.NewSilo(logging.L)
	}
	return c
}

// State returns the active state.
func (c *Controller) State() State {
	return c.state
}

// KeyCount returns the number of keys currently inserted.
func (c *Controller) KeyCount() int {
	return c.keyCount
}

// InsertKey turns one more key. A third key is ignored.
func (c *Controller) InsertKey() {
	from := c.state
	switch c.state {
	case WaitingForFirstKey:
		c.keyCount = 1
		c.state = WaitingForSecondKey
	case WaitingForSecondKey:
		c.keyCount = requiredKeys
		c.state = WaitingForUnlockCode
	case WaitingForUnlockCode, WaitingForLaunchCommand, Launched:
	}
	c.notify(Transition{Op: InsertKey, From: from, To: c.state})
}

// RemoveKey pulls one key. Pulling a key while both are in forgets any
// accepted unlock code.
func (c *Controller) RemoveKey() {
	from := c.state
	switch c.state {
	case WaitingForSecondKey:
		c.keyCount = 0
		c.state = WaitingForFirstKey
	case WaitingForUnlockCode, WaitingForLaunchCommand:
		c.keyCount = 1
		c.state = WaitingForSecondKey
	case WaitingForFirstKey, Launched:
	}
	c.notify(Transition{Op: RemoveKey, From: from, To: c.state})
}

// SubmitUnlockCode accepts code only while both keys are in and no code has
// been accepted yet. A wrong code leaves the controller waiting.
func (c *Controller) SubmitUnlockCode(code string) {
	from := c.state
	switch c.state {
	case WaitingForUnlockCode:
		if code == UnlockCode {
			c.state = WaitingForLaunchCommand
		}
	case WaitingForFirstKey, WaitingForSecondKey, WaitingForLaunchCommand, Launched:
	}
	c.notify(Transition{Op: SubmitUnlockCode, From: from, To: c.state})
}

// SubmitLaunchCommand fires the launcher once the interlock is fully
// unlocked. In every other state it does nothing.
func (c *Controller) SubmitLaunchCommand() {
	from := c.state
	fired := false
	switch c.state {
	case WaitingForLaunchCommand:
		c.launcher.Launch()
		c.state = Launched
		fired = true
	case WaitingForFirstKey, WaitingForSecondKey, WaitingForUnlockCode, Launched:
	}
	c.notify(Transition{Op: SubmitLaunchCommand, From: from, To: c.state, Launched: fired})
}

func (c *Controller) notify(t Transition) {
	for _, o := range c.observers {
		o(t)
	}
}
