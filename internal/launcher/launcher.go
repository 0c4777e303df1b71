// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package launcher provides the launch capabilities a controller can fire:
// the production Silo, a DryRun variant for drills, and a Recorder double
// for tests.
package launcher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/toeirei/interlock/internal/logging"
)

// ErrUnknownLauncher is returned by ByName for names it does not know.
var ErrUnknownLauncher = errors.New("unknown launcher")

const (
	NameSilo   = "silo"
	NameDryRun = "dry-run"
)

// Launcher fires the missile. It has the same method set as
// interlock.Launcher.
type Launcher interface {
	Launch()
}

// ByName returns the launcher configured under name. An empty name selects
// the silo.
func ByName(name string, logger *log.Logger) (Launcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSilo:
		return NewSilo(logger), nil
	case NameDryRun:
		return NewDryRun(logger), nil
	}
	return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownLauncher, name, NameSilo, NameDryRun)
}

// Silo is the production launcher.
type Silo struct {
	log        *log.Logger
	now        func() time.Time
	launchedAt time.Time
}

// NewSilo returns a silo that reports launches to logger, or to the package
// logger when logger is nil.
func NewSilo(logger *log.Logger) *Silo {
	if logger == nil {
		logger = logging.L
	}
	return &Silo{log: logger, now: time.Now}
}

// Launch fires the missile and records when it happened.
func (s *Silo) Launch() {
	s.launchedAt = s.now()
	s.log.Warn("missile launched", "at", s.launchedAt.Format(time.RFC3339))
}

// LaunchedAt returns the launch time, or the zero time if Launch was never
// called.
func (s *Silo) LaunchedAt() time.Time {
	return s.launchedAt
}

// DryRun logs launch requests without firing.
type DryRun struct {
	log      *log.Logger
	requests int
}

// NewDryRun returns a drill launcher.
func NewDryRun(logger *log.Logger) *DryRun {
	if logger == nil {
		logger = logging.L
	}
	return &DryRun{log: logger}
}

func (d *DryRun) Launch() {
	d.requests++
	d.log.Info("launch suppressed (dry run)", "requests", d.requests)
}

// Requests returns how many launches were suppressed.
func (d *DryRun) Requests() int {
	return d.requests
}
