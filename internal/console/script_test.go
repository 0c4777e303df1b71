// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toeirei/interlock/internal/interlock"
	"github.com/toeirei/interlock/internal/launcher"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    []Command
		wantErr bool
	}{
		{
			name:   "aliases and case",
			tokens: []string{"INSERT", "insert-key", "Remove", "remove-key", "launch", "state"},
			want: []Command{
				{Kind: KindInsertKey, Line: 3}, {Kind: KindInsertKey, Line: 3},
				{Kind: KindRemoveKey, Line: 3}, {Kind: KindRemoveKey, Line: 3},
				{Kind: KindLaunch, Line: 3}, {Kind: KindShowState, Line: 3},
			},
		},
		{
			name:   "code forms",
			tokens: []string{"code", "1234", "code=0000", "unlock", "42"},
			want: []Command{
				{Kind: KindUnlockCode, Code: "1234", Line: 3},
				{Kind: KindUnlockCode, Code: "0000", Line: 3},
				{Kind: KindUnlockCode, Code: "42", Line: 3},
			},
		},
		{name: "comment stops the line", tokens: []string{"insert", "#", "launch"}, want: []Command{{Kind: KindInsertKey, Line: 3}}},
		{name: "empty", tokens: nil, want: nil},
		{name: "code without value", tokens: []string{"code"}, wantErr: true},
		{name: "unknown", tokens: []string{"arm"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tokens, 3)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSyntax)
				assert.Contains(t, err.Error(), "line 3")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScript_ReportsLine(t *testing.T) {
	_, err := ParseScript(strings.NewReader("insert\n\n# two keys\ninsert\nfire\n"))
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "line 5")
}

func TestRun_FullSequence(t *testing.T) {
	script := `# reinsert the second key before unlocking
insert
insert
remove
insert
code 1234
launch
state
`
	cmds, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)

	rec := &launcher.Recorder{}
	var out bytes.Buffer
	final, err := Run(interlock.New(interlock.WithLauncher(rec)), cmds, &out)
	require.NoError(t, err)
	assert.Equal(t, interlock.Launched, final)
	assert.Equal(t, 1, rec.Calls())

	want := strings.Join([]string{
		"insert-key: WAITING_FOR_FIRST_KEY -> WAITING_FOR_SECOND_KEY",
		"insert-key: WAITING_FOR_SECOND_KEY -> WAITING_FOR_UNLOCK_CODE",
		"remove-key: WAITING_FOR_UNLOCK_CODE -> WAITING_FOR_SECOND_KEY",
		"insert-key: WAITING_FOR_SECOND_KEY -> WAITING_FOR_UNLOCK_CODE",
		"submit-unlock-code: WAITING_FOR_UNLOCK_CODE -> WAITING_FOR_LAUNCH_COMMAND",
		"submit-launch-command: WAITING_FOR_LAUNCH_COMMAND -> LAUNCHED",
		"LAUNCHED",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
}

func TestRun_WrongCodeIsIgnoredAndNotEchoed(t *testing.T) {
	cmds, err := Parse([]string{"insert", "insert", "code=9876", "launch"}, 1)
	require.NoError(t, err)

	rec := &launcher.Recorder{}
	var out bytes.Buffer
	final, err := Run(interlock.New(interlock.WithLauncher(rec)), cmds, &out)
	require.NoError(t, err)
	assert.Equal(t, interlock.WaitingForUnlockCode, final)
	assert.Zero(t, rec.Calls())
	assert.Contains(t, out.String(), "submit-unlock-code: WAITING_FOR_UNLOCK_CODE (ignored)")
	assert.NotContains(t, out.String(), "9876")
}
