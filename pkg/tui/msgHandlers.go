package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clcollins/srenow/pkg/snow"
)

// errMsgHandler is the message handler for the errMsg message
func (m model) errMsgHandler(msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("errMsgHandler", "error", msg.(errMsg).error)
	m.setStatus(msg.(errMsg).Error())
	m.err = msg.(errMsg)
	return m, nil
}

// windowSizeMsgHandler is the message handler for the windowSizeMsg message
// and resizes the tui according to the new terminal window size
func (m model) windowSizeMsgHandler(msg tea.Msg) (tea.Model, tea.Cmd) {
	windowSize = msg.(tea.WindowSizeMsg)
	debug("windowSizeMsgHandler", "width", windowSize.Width, "height", windowSize.Height)

	borderEdges := 2
	m.help.Width = windowSize.Width - borderEdges

	// header, footer, help and the table border
	height := max(windowSize.Height-8, 3)
	m.recordTable.SetHeight(height)
	m.setRows()

	m.recordViewer.Width = windowSize.Width - borderEdges
	m.recordViewer.Height = height
	m.input.Width = max(windowSize.Width-len(defaultInputPrompt)-borderEdges-2, 10)

	return m, nil
}

// gotRecordsMsgHandler applies a fetch result if it belongs to the latest fetch
func (m model) gotRecordsMsgHandler(msg tea.Msg) (tea.Model, tea.Cmd) {
	r := msg.(gotRecordsMsg)

	if r.seq != m.fetchSeq || r.table != m.table.Name {
		debug("gotRecordsMsgHandler: dropping stale response", "seq", r.seq, "latest", m.fetchSeq)
		return m, nil
	}

	m.loading = false
	m.cancelFetch = nil

	if r.err != nil {
		m.fetchErr = r.err
		m.incidents = nil
		m.changes = nil
		m.page.TotalCount = 0
		m.setRows()
		m.setStatus(fmt.Sprintf("failed to load %s", m.table.Label))
		return m, nil
	}

	m.fetchErr = nil
	m.incidents = r.incidents
	m.changes = r.changes
	m.page.TotalCount = r.total

	// A resolve or close can empty the last page; step back to the new last page
	if len(r.incidents)+len(r.changes) == 0 && m.page.Page > 0 && m.page.Offset() >= r.total {
		m.page.Page = m.page.TotalPages() - 1
		debug("gotRecordsMsgHandler: page out of range", "page", m.page.Page)
		cmd := m.fetch()
		return m, cmd
	}

	m.setRows()
	m.setStatus(fmt.Sprintf("showing %d/%d %s", len(r.incidents)+len(r.changes), r.total, m.table.Label))
	return m, nil
}

func (m model) actionFinishedMsgHandler(msg tea.Msg) (tea.Model, tea.Cmd) {
	a := msg.(actionFinishedMsg)
	delete(m.pendingActions, a.key)

	// The dialog may have been dismissed, or reopened for another record,
	// while the request was running
	current := m.dialog.isOpen() && m.dialog.actionKey() == a.key
	if current {
		m.dialog.submitting = false
	}

	if a.err != nil {
		if current {
			m.actionErr = a.err
			m.setStatus(fmt.Sprintf("%s failed", a.kind))
		} else {
			m.setStatus(fmt.Sprintf("%s failed: %v", a.kind, a.err))
		}
		return m, nil
	}

	if current {
		m.closeDialog()
		m.actionErr = nil
	}
	if a.kind == dialogCreate {
		m.dialog = m.dialog.resetCreate()
	}
	m.viewingRecord = false

	status := actionStatus(a.kind, a.ref)
	cmd := m.fetch()
	m.setStatus(status)
	return m, cmd
}

func (m model) keyMsgHandler(msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("keyMsgHandler", "tea.KeyMsg", fmt.Sprint(msg))
	if key.Matches(msg.(tea.KeyMsg), defaultKeyMap.ForceQuit) {
		if m.cancelFetch != nil {
			m.cancelFetch()
		}
		return m, tea.Quit
	}

	switch {
	case m.err != nil:
		return switchErrorFocusMode(m, msg)

	case m.dialog.isOpen():
		return switchDialogFocusMode(m, msg)

	case m.menu.visible:
		return switchMenuFocusMode(m, msg)

	case m.input.Focused():
		return switchInputFocusMode(m, msg)

	case m.viewingRecord:
		return switchRecordFocusMode(m, msg)

	default:
		return switchTableFocusMode(m, msg)
	}
}

// switchTableFocusMode is the main mode for the application
func switchTableFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchTableFocusMode")

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Quit):
			if m.cancelFetch != nil {
				m.cancelFetch()
			}
			return m, tea.Quit

		case key.Matches(msg, defaultKeyMap.Help):
			m.toggleHelp()

		case key.Matches(msg, defaultKeyMap.Up):
			m.recordTable.MoveUp(1)

		case key.Matches(msg, defaultKeyMap.Down):
			m.recordTable.MoveDown(1)

		case key.Matches(msg, defaultKeyMap.Top):
			m.recordTable.GotoTop()

		case key.Matches(msg, defaultKeyMap.Bottom):
			m.recordTable.GotoBottom()

		case key.Matches(msg, defaultKeyMap.Enter):
			ref := m.highlightedRecord()
			if ref == nil {
				m.setStatus(errNoRecordSelected.Error())
				return m, nil
			}
			m.viewingRecord = true
			m.viewedRecord = ref
			return m, renderRecord(&m, ref)

		case key.Matches(msg, defaultKeyMap.Tab):
			m.switchTable()
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.State):
			m.stateIdx = (m.stateIdx + 1) % max(len(m.table.StateFilters), 1)
			m.resetPage()
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.Filter):
			m.input.SetValue(m.description)
			m.input.CursorEnd()
			m.recordTable.Blur()
			cmd := m.input.Focus()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.NextPage):
			if !m.page.HasNext() {
				m.setStatus("already on the last page")
				return m, nil
			}
			m.page = m.page.Next()
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.PrevPage):
			if !m.page.HasPrev() {
				m.setStatus("already on the first page")
				return m, nil
			}
			m.page = m.page.Prev()
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.PageSize):
			m.page = m.page.WithPageSize(snow.NextPageSize(m.page.PageSize))
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.Refresh):
			cmd := m.fetch()
			return m, cmd

		case key.Matches(msg, defaultKeyMap.Menu):
			ref := m.highlightedRecord()
			if ref == nil {
				m.setStatus(errNoRecordSelected.Error())
				return m, nil
			}
			m.menu = m.menu.open(ref)

		case key.Matches(msg, defaultKeyMap.Create):
			m.openDialog(dialogCreate, nil)
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Update):
			m.openDialog(dialogUpdate, m.highlightedRecord())
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Resolve):
			m.openDialog(dialogResolve, m.highlightedRecord())
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Close):
			m.openDialog(dialogClose, m.highlightedRecord())
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Open):
			cmd := m.openHighlighted(m.highlightedRecord())
			return m, cmd
		}
	}
	return m, nil
}

// switchInputFocusMode edits the description filter
func switchInputFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchInputFocusMode")
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Back):
			m.input.Blur()
			m.input.Reset()
			m.recordTable.Focus()
			return m, nil

		case key.Matches(msg, defaultKeyMap.Submit):
			m.description = m.input.Value()
			m.input.Blur()
			m.recordTable.Focus()
			m.resetPage()
			cmd = m.fetch()
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// switchDialogFocusMode handles the open create, update, resolve or close dialog
func switchDialogFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchDialogFocusMode", "dialog", m.dialog.kind)
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Back):
			m.closeDialog()
			return m, nil

		case key.Matches(msg, defaultKeyMap.Submit):
			if m.dialog.submitting || m.pendingActions[m.dialog.actionKey()] {
				m.setStatus(fmt.Sprintf("%s already in progress", m.dialog.kind))
				return m, nil
			}
			if m.config == nil {
				m.actionErr = errNoConfig
				return m, nil
			}
			if m.pendingActions == nil {
				m.pendingActions = map[string]bool{}
			}
			m.pendingActions[m.dialog.actionKey()] = true
			m.dialog.submitting = true
			m.actionErr = nil
			m.setStatus(fmt.Sprintf("%s in progress...", m.dialog.kind))
			return m, runAction(m.config.Client, m.table, m.dialog, m.scope().CISysID)

		case key.Matches(msg, defaultKeyMap.Priority):
			if m.dialog.kind == dialogCreate {
				m.dialog = m.dialog.cyclePriority()
			}
			return m, nil

		case key.Matches(msg, defaultKeyMap.Risk):
			if m.dialog.kind == dialogCreate && m.table.Name == snow.ChangeTable.Name {
				m.dialog = m.dialog.cycleRisk()
			}
			return m, nil
		}
	}

	m.dialog.input, cmd = m.dialog.input.Update(msg)
	return m, cmd
}

// switchMenuFocusMode handles the per-record action menu
func switchMenuFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchMenuFocusMode")

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Up):
			m.menu = m.menu.up()

		case key.Matches(msg, defaultKeyMap.Down):
			m.menu = m.menu.down()

		case key.Matches(msg, defaultKeyMap.Submit):
			item := m.menu.selected()
			target := m.menu.target
			m.menu = m.menu.close()
			m.openDialog(item.kind, target)
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Back):
			m.menu = m.menu.close()
		}
	}
	return m, nil
}

// switchRecordFocusMode shows the detail view for a single record
func switchRecordFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchRecordFocusMode")
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Help):
			m.toggleHelp()
			return m, nil

		// This un-sets the viewed record and returns to the table view
		case key.Matches(msg, defaultKeyMap.Back):
			m.viewingRecord = false
			m.viewedRecord = nil
			return m, nil

		case key.Matches(msg, defaultKeyMap.Open):
			cmd = m.openHighlighted(m.viewedRecord)
			return m, cmd

		case key.Matches(msg, defaultKeyMap.Refresh):
			return m, renderRecord(&m, m.viewedRecord)

		case key.Matches(msg, defaultKeyMap.Update):
			m.openDialog(dialogUpdate, m.viewedRecord)
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Resolve):
			m.openDialog(dialogResolve, m.viewedRecord)
			return m, textinput.Blink

		case key.Matches(msg, defaultKeyMap.Close):
			m.openDialog(dialogClose, m.viewedRecord)
			return m, textinput.Blink
		}
	}

	m.recordViewer, cmd = m.recordViewer.Update(msg)
	return m, cmd
}

func switchErrorFocusMode(m model, msg tea.Msg) (tea.Model, tea.Cmd) {
	debug("switchErrorFocusMode")
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeyMap.Back):
			m.err = nil
		case key.Matches(msg, defaultKeyMap.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) openHighlighted(ref *snow.RecordRef) tea.Cmd {
	if ref == nil {
		m.setStatus(errNoRecordSelected.Error())
		return nil
	}
	if !m.launcher.Enabled {
		return func() tea.Msg { return browserFinishedMsg{errors.New("no browser configured")} }
	}
	url := m.recordURL(ref)
	m.setStatus(fmt.Sprintf("opening %s", ref.Number))
	return openBrowserCmd(m.launcher, url)
}
