// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package console implements the line-oriented operation language used to
// drive a controller from the command line or from a piped script.
//
//	insert            insert a key (alias: insert-key)
//	remove            remove a key (alias: remove-key)
//	code 1234         submit an unlock code (also: code=1234)
//	launch            submit the launch command
//	state             print the current state
//	# comment         ignored until end of line
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/toeirei/interlock/internal/interlock"
)

// ErrSyntax wraps every parse error.
var ErrSyntax = errors.New("syntax error")

// Kind selects what a Command does.
type Kind int

const (
	KindInsertKey Kind = iota
	KindRemoveKey
	KindUnlockCode
	KindLaunch
	KindShowState
)

// Command is one parsed instruction.
type Command struct {
	Kind Kind
	Code string
	Line int
}

// Parse turns whitespace-separated tokens into commands. line is recorded on
// each command and used in error messages.
func Parse(tokens []string, line int) ([]Command, error) {
	var cmds []Command
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.HasPrefix(tok, "#") {
			break
		}
		word, value, hasValue := strings.Cut(tok, "=")
		switch strings.ToLower(word) {
		case "insert", "insert-key":
			cmds = append(cmds, Command{Kind: KindInsertKey, Line: line})
		case "remove", "remove-key":
			cmds = append(cmds, Command{Kind: KindRemoveKey, Line: line})
		case "code", "unlock":
			if !hasValue {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("%w: line %d: %q needs a value", ErrSyntax, line, word)
				}
				i++
				value = tokens[i]
			}
			cmds = append(cmds, Command{Kind: KindUnlockCode, Code: value, Line: line})
		case "launch":
			cmds = append(cmds, Command{Kind: KindLaunch, Line: line})
		case "state":
			cmds = append(cmds, Command{Kind: KindShowState, Line: line})
		default:
			return nil, fmt.Errorf("%w: line %d: unknown operation %q", ErrSyntax, line, tok)
		}
	}
	return cmds, nil
}

// ParseScript parses r line by line.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		parsed, err := Parse(strings.Fields(sc.Text()), line)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, parsed...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return cmds, nil
}

// Apply runs cmd against op.
func Apply(op interlock.Operator, cmd Command) {
	switch cmd.Kind {
	case KindInsertKey:
		op.InsertKey()
	case KindRemoveKey:
		op.RemoveKey()
	case KindUnlockCode:
		op.SubmitUnlockCode(cmd.Code)
	case KindLaunch:
		op.SubmitLaunchCommand()
	case KindShowState:
	}
}

// Run applies cmds in order, writing one line per command to w, and returns
// the final state.
func Run(op interlock.Operator, cmds []Command, w io.Writer) (interlock.State, error) {
	for _, cmd := range cmds {
		from := op.State()
		Apply(op, cmd)
		to := op.State()
		var err error
		switch {
		case cmd.Kind == KindShowState:
			_, err = fmt.Fprintln(w, to)
		case from == to:
			_, err = fmt.Fprintf(w, "%s: %s (ignored)\n", describe(cmd), to)
		default:
			_, err = fmt.Fprintf(w, "%s: %s -> %s\n", describe(cmd), from, to)
		}
		if err != nil {
			return to, err
		}
	}
	return op.State(), nil
}

// describe names a command without echoing the submitted code.
func describe(cmd Command) string {
	switch cmd.Kind {
	case KindInsertKey:
		return interlock.InsertKey.String()
	case KindRemoveKey:
		return interlock.RemoveKey.String()
	case KindUnlockCode:
		return interlock.SubmitUnlockCode.String()
	case KindLaunch:
		return interlock.SubmitLaunchCommand.String()
	}
	return "state"
}
