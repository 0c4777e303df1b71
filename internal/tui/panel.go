// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/interlock/internal/i18n"
	"github.com/toeirei/interlock/internal/interlock"
)

const journalLines = 8

type keyCounter interface {
	KeyCount() int
}

// panelModel is the operator panel. All controller calls happen inside
// Update, so the controller is only ever touched from the bubbletea loop.
type panelModel struct {
	op       interlock.Operator
	keys     KeyMap
	codeKeys CodeKeyMap
	help     help.Model
	code     textinput.Model
	entering bool
	journal  []string
	notice   string
	failed   bool
	width    int
	quitting bool

	// copyText is swapped out in tests.
	copyText func(string) error
}

func newPanelModel(op interlock.Operator) *panelModel {
	ti := textinput.New()
	ti.Prompt = i18n.T("tui.code_prompt") + ": "
	ti.Placeholder = i18n.T("tui.code_placeholder")
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 16

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle

	return &panelModel{
		op:       op,
		keys:     NewKeyMap(),
		codeKeys: NewCodeKeyMap(),
		help:     h,
		code:     ti,
		copyText: clipboard.WriteAll,
	}
}

func (m *panelModel) Init() tea.Cmd {
	return nil
}

func (m *panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.entering {
			return m.updateCode(msg)
		}
		return m.updatePanel(msg)
	}
	if m.entering {
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *panelModel) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Insert):
		m.apply(interlock.InsertKey, m.op.InsertKey)
	case key.Matches(msg, m.keys.Remove):
		m.apply(interlock.RemoveKey, m.op.RemoveKey)
	case key.Matches(msg, m.keys.Launch):
		m.apply(interlock.SubmitLaunchCommand, m.op.SubmitLaunchCommand)
	case key.Matches(msg, m.keys.Code):
		m.entering = true
		m.code.Reset()
		return m, m.code.Focus()
	case key.Matches(msg, m.keys.Copy):
		m.copyJournal()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *panelModel) updateCode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.codeKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.codeKeys.Submit):
		code := m.code.Value()
		m.closeCode()
		m.apply(interlock.SubmitUnlockCode, func() { m.op.SubmitUnlockCode(code) })
		return m, nil
	case key.Matches(msg, m.codeKeys.Cancel):
		m.closeCode()
		return m, nil
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

func (m *panelModel) closeCode() {
	m.entering = false
	m.code.Reset()
	m.code.Blur()
}

// apply runs fn and journals what it did to the controller.
func (m *panelModel) apply(op interlock.Operation, fn func()) {
	from := m.op.State()
	fn()
	to := m.op.State()

	opLabel := i18n.T("op." + op.String())
	var line string
	if from == to {
		line = i18n.T("tui.ignored", opLabel, i18n.StateLabel(from.String()))
	} else {
		line = i18n.T("tui.moved", opLabel, i18n.StateLabel(from.String()), i18n.StateLabel(to.String()))
	}
	m.journal = append(m.journal, line)
}

func (m *panelModel) copyJournal() {
	if err := m.copyText(strings.Join(m.journal, "\n")); err != nil {
		m.notice = i18n.T("tui.copy_failed", err)
		m.failed = true
		return
	}
	m.notice = i18n.T("tui.copied")
	m.failed = false
}

func (m *panelModel) View() string {
	if m.quitting {
		return ""
	}
	state := m.op.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.title")))
	b.WriteString("\n\n")
	b.WriteString(stateStyle(state).Render(i18n.T("tui.state", i18n.StateLabel(state.String()))))
	b.WriteString("\n")
	if kc, ok := m.op.(keyCounter); ok {
		b.WriteString(i18n.T("tui.keys", kc.KeyCount()))
		b.WriteString("\n")
	}
	if state == interlock.Launched {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render(i18n.T("tui.launched_banner")))
		b.WriteString("\n")
	}
	if m.entering {
		b.WriteString("\n")
		b.WriteString(m.code.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(journalStyle.Render(m.journalView()))
	b.WriteString("\n")

	if m.notice != "" {
		style := noticeStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	var helpView string
	if m.entering {
		helpView = m.help.View(m.codeKeys)
	} else {
		helpView = m.help.View(m.keys)
	}
	b.WriteString("\n")
	b.WriteString(AlignFooter(helpView, helpStyle.Render(state.String()), m.width-4))

	return docStyle.Render(b.String())
}

func (m *panelModel) journalView() string {
	header := lipgloss.NewStyle().Bold(true).Render(i18n.T("tui.journal"))
	if len(m.journal) == 0 {
		return header + "\n" + helpStyle.Render(i18n.T("tui.journal_empty"))
	}
	start := 0
	if len(m.journal) > journalLines {
		start = len(m.journal) - journalLines
	}
	lines := make([]string, 0, journalLines+1)
	lines = append(lines, header)
	for i, l := range m.journal[start:] {
		lines = append(lines, fmt.Sprintf("%3d  %s", start+i+1, l))
	}
	return strings.Join(lines, "\n")
}
