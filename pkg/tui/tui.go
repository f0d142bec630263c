package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// errMsg captures errors that should take over the screen
type errMsg struct{ error }

func (m model) Init() tea.Cmd {
	if m.err != nil {
		return func() tea.Msg { return errMsg{m.err} }
	}
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return updateRecordListMsg("init") },
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		return m.errMsgHandler(msg)

	case tea.WindowSizeMsg:
		return m.windowSizeMsgHandler(msg)

	case tea.KeyMsg:
		return m.keyMsgHandler(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case updateRecordListMsg:
		debug("updateRecordListMsg", "reason", string(msg))
		cmd := m.fetch()
		return m, cmd

	case gotRecordsMsg:
		return m.gotRecordsMsgHandler(msg)

	case actionFinishedMsg:
		return m.actionFinishedMsgHandler(msg)

	case renderedRecordMsg:
		if msg.err != nil {
			m.viewingRecord = false
			m.setStatus(fmt.Sprintf("failed to render %s: %v", msg.ref.Number, msg.err))
			return m, nil
		}
		if m.viewingRecord {
			m.recordViewer.SetContent(msg.content)
			m.recordViewer.GotoTop()
			m.setStatus(fmt.Sprintf("viewing %s", msg.ref.Number))
		}
		return m, nil

	case browserFinishedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("failed to open browser: %v", msg.err))
		}
		return m, nil
	}

	// Cursor blink and other messages for the focused input
	var cmd tea.Cmd
	switch {
	case m.dialog.isOpen():
		m.dialog.input, cmd = m.dialog.input.Update(msg)
	case m.input.Focused():
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}
