package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/clcollins/srenow/pkg/launcher"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui/style"
)

const defaultInputPrompt = " / "

var errNoConfig = errors.New("no ServiceNow configuration loaded")

type model struct {
	err error

	config   *snow.Config
	launcher launcher.BrowserLauncher

	// table, stateIdx and description make up the filter state
	table       snow.Table
	stateIdx    int
	description string
	page        snow.Page

	incidents []snow.Incident
	changes   []snow.Change

	loading   bool
	fetchErr  error
	actionErr error

	// fetchSeq identifies the latest fetch; responses carrying any other
	// sequence number are stale and dropped
	fetchSeq    int
	cancelFetch context.CancelFunc

	dialog dialog
	menu   actionMenu
	// pendingActions holds the actionKey of every action still in flight
	pendingActions map[string]bool

	recordTable table.Model
	input       textinput.Model
	// This is a hack since viewport.Model doesn't have a Focused() method
	viewingRecord    bool
	viewedRecord     *snow.RecordRef
	recordViewer     viewport.Model
	help             help.Model
	spinner          spinner.Model
	markdownRenderer *glamour.TermRenderer

	status string
	debug  bool
}

// InitialModel builds the TUI model for table, scoped by cfg.Scope. A nil
// cfg or a cfgErr puts the model straight into the error view.
func InitialModel(
	cfg *snow.Config,
	cfgErr error,
	t snow.Table,
	stateFilter string,
	launcher launcher.BrowserLauncher,
	debug bool,
) (tea.Model, tea.Cmd) {
	m := newModel(cfg, t, launcher, debug)

	if i, ok := t.StateFilterIndex(stateFilter); ok {
		m.stateIdx = i
	}

	// Init() runs before Update() so the error has to be set on the model
	// here rather than through an errMsg
	if cfgErr != nil {
		log.Error("InitialModel", "error", cfgErr)
		m.err = cfgErr
	} else if cfg == nil {
		m.err = errNoConfig
	}

	log.Debug("InitialModel", "table", t.Name, "scope", m.scope())

	return m, m.Init()
}

func newModel(cfg *snow.Config, t snow.Table, launcher launcher.BrowserLauncher, debug bool) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = style.Spinner

	// Reusing one renderer is much faster than creating one per render
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		log.Error("InitialModel", "failed to create markdown renderer", err)
		renderer = nil
	}

	pageSize := 0
	if cfg != nil {
		pageSize = cfg.PageSize
	}

	m := model{
		config:           cfg,
		launcher:         launcher,
		table:            t,
		page:             snow.NewPage(pageSize),
		dialog:           newDialog(),
		recordTable:      newTableWithStyles(),
		input:            newTextInput(),
		recordViewer:     newRecordViewer(),
		help:             newHelp(),
		spinner:          s,
		markdownRenderer: renderer,
		debug:            debug,
	}
	m.setRows()
	return m
}

func (m model) scope() snow.Scope {
	if m.config == nil {
		return snow.Scope{}
	}
	return m.config.Scope
}

func (m model) filter() snow.Filter {
	return snow.Filter{
		State:       m.table.StateFilter(m.stateIdx),
		Description: m.description,
	}
}

// fetch starts a new list request for the current filter and page. Any
// request still in flight is cancelled and its response will be ignored.
func (m *model) fetch() tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
	m.fetchSeq++

	if m.config == nil {
		m.loading = false
		return func() tea.Msg { return errMsg{errNoConfig} }
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel
	m.loading = true
	m.setStatus(loadingStatus(m.table))

	opts := snow.NewListOpts(m.table, m.scope(), m.filter(), m.page)
	debug("fetch", "seq", m.fetchSeq, "table", m.table.Name, "query", opts.Query, "offset", opts.Offset)

	return fetchRecords(ctx, m.config.Client, m.table, opts, m.fetchSeq)
}

// resetPage returns to the first page; every filter change goes through here
func (m *model) resetPage() {
	m.page = m.page.Reset()
}

func (m *model) switchTable() {
	if m.table.Name == snow.ChangeTable.Name {
		m.table = snow.IncidentTable
	} else {
		m.table = snow.ChangeTable
	}
	m.stateIdx = 0
	m.incidents = nil
	m.changes = nil
	m.resetPage()
	m.setRows()
}

// setRows rebuilds the table from the current records. Rows are cleared
// first since the column count differs between tables.
func (m *model) setRows() {
	var rows []table.Row
	switch m.table.Name {
	case snow.ChangeTable.Name:
		rows = changeRows(m.changes)
	default:
		rows = incidentRows(m.incidents)
	}
	m.recordTable.SetRows(nil)
	m.recordTable.SetColumns(columnsFor(m.table, windowSize.Width))
	m.recordTable.SetRows(rows)
	// GotoTop on an empty table leaves the cursor at -1
	if len(rows) > 0 {
		if c := m.recordTable.Cursor(); c < 0 || c >= len(rows) {
			m.recordTable.SetCursor(0)
		}
	}
}

// highlightedRecord returns the record under the table cursor, if any
func (m model) highlightedRecord() *snow.RecordRef {
	i := m.recordTable.Cursor()
	switch m.table.Name {
	case snow.ChangeTable.Name:
		if i >= 0 && i < len(m.changes) {
			r := m.changes[i].Ref()
			return &r
		}
	default:
		if i >= 0 && i < len(m.incidents) {
			r := m.incidents[i].Ref()
			return &r
		}
	}
	return nil
}

// recordURL returns the ServiceNow UI link to ref
func (m model) recordURL(ref *snow.RecordRef) string {
	if m.config == nil || ref == nil {
		return ""
	}
	return snow.RecordURL(m.config.InstanceURL, ref.Table, ref.SysID)
}

func (m *model) openDialog(kind dialogKind, target *snow.RecordRef) {
	d, err := m.dialog.open(kind, target)
	if err != nil {
		debug("openDialog", "kind", kind, "error", err)
		m.setStatus(err.Error())
		return
	}
	m.menu = m.menu.close()
	m.actionErr = nil
	d.submitting = m.pendingActions[d.actionKey()]
	m.dialog = d
	m.recordTable.Blur()
}

func (m *model) closeDialog() {
	m.dialog = m.dialog.close()
	m.actionErr = nil
	m.recordTable.Focus()
}

func (m *model) setStatus(msg string) {
	log.Info("setStatus", "status", msg)
	m.status = msg
}

func (m *model) toggleHelp() {
	m.help.ShowAll = !m.help.ShowAll
}

func newTableWithStyles() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(initialTableHeight),
	)
	t.SetStyles(style.Table)
	return t
}

func newTextInput() textinput.Model {
	i := textinput.New()
	i.Prompt = defaultInputPrompt
	i.Placeholder = "description contains..."
	i.CharLimit = shortDescLimit
	i.Width = 50
	return i
}

func newHelp() help.Model {
	h := help.New()
	h.ShowAll = false
	return h
}

func newRecordViewer() viewport.Model {
	vp := viewport.New(100, 100)
	vp.Style = style.RecordViewer
	return vp
}
