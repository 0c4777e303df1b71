// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/interlock/internal/i18n"
)

// KeyMap holds the panel bindings.
type KeyMap struct {
	Insert key.Binding
	Remove key.Binding
	Code   key.Binding
	Launch key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Insert, km.Remove, km.Code, km.Launch, km.Help, km.Quit}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Insert, km.Remove},
		{km.Code, km.Launch},
		{km.Copy, km.Help, km.Quit},
	}
}

// *KeyMap implements help.KeyMap
var _ help.KeyMap = (*KeyMap)(nil)

// NewKeyMap builds the bindings with help text in the active language.
func NewKeyMap() KeyMap {
	return KeyMap{
		Insert: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", i18n.T("tui.help.insert"))),
		Remove: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", i18n.T("tui.help.remove"))),
		Code:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", i18n.T("tui.help.code"))),
		Launch: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", i18n.T("tui.help.launch"))),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", i18n.T("tui.help.copy"))),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", i18n.T("tui.help.help"))),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", i18n.T("tui.help.quit"))),
	}
}

// CodeKeyMap holds the bindings active while the unlock code is typed.
type CodeKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func (km CodeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Submit, km.Cancel}
}

func (km CodeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Submit, km.Cancel, km.Quit}}
}

var _ help.KeyMap = (*CodeKeyMap)(nil)

func NewCodeKeyMap() CodeKeyMap {
	return CodeKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", i18n.T("tui.help.submit"))),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T("tui.help.cancel"))),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", i18n.T("tui.help.quit"))),
	}
}
