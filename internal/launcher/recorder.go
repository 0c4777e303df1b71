// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package launcher

// Recorder is a Launcher test double that only counts calls.
type Recorder struct {
	calls int
}

func (r *Recorder) Launch() {
	r.calls++
}

// Calls returns how many times Launch was called.
func (r *Recorder) Calls() int {
	return r.calls
}

var (
	_ Launcher = (*Recorder)(nil)
	_ Launcher = (*Silo)(nil)
	_ Launcher = (*DryRun)(nil)
)
