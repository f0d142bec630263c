package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clcollins/srenow/pkg/launcher"
	"github.com/clcollins/srenow/pkg/snow"
)

var errNoRecordSelected = errors.New("no record selected")

func loadingStatus(t snow.Table) string {
	return fmt.Sprintf("loading %s...", t.Label)
}

type updateRecordListMsg string

// gotRecordsMsg carries one page of records for the fetch numbered seq
type gotRecordsMsg struct {
	seq       int
	table     string
	incidents []snow.Incident
	changes   []snow.Change
	total     int
	err       error
}

func fetchRecords(ctx context.Context, client snow.TableClient, t snow.Table, opts snow.ListOptions, seq int) tea.Cmd {
	return func() tea.Msg {
		msg := gotRecordsMsg{seq: seq, table: t.Name}

		switch t.Name {
		case snow.ChangeTable.Name:
			msg.changes, msg.total, msg.err = snow.GetChanges(ctx, client, opts)
		default:
			msg.incidents, msg.total, msg.err = snow.GetIncidents(ctx, client, opts)
		}

		debug("tui.fetchRecords(): done", "seq", seq, "table", t.Name, "total", msg.total, "err", msg.err)
		return msg
	}
}

type actionFinishedMsg struct {
	kind dialogKind
	// key is the actionKey of the dialog that submitted the action
	key string
	ref *snow.RecordRef
	err error
}

// runAction performs the action for an open dialog. input is the dialog's text:
// the new description for create and update, the close notes otherwise.
func runAction(client snow.TableClient, t snow.Table, d dialog, ciSysID string) tea.Cmd {
	kind := d.kind
	target := d.target
	key := d.actionKey()
	input := d.input.Value()
	createOpts := d.createOptions(ciSysID)

	return func() tea.Msg {
		ctx := context.Background()

		var err error
		ref := target

		switch kind {
		case dialogCreate:
			ref, err = snow.CreateRecord(ctx, client, t, createOpts)
		case dialogUpdate:
			err = snow.UpdateDescription(ctx, client, t, target.SysID, input)
		case dialogResolve:
			err = snow.ResolveRecord(ctx, client, t, target.SysID, input)
		case dialogClose:
			err = snow.CloseRecord(ctx, client, t, target.SysID, input)
		default:
			err = errUnknownDialog
		}

		debug("tui.runAction(): done", "kind", kind, "err", err)
		return actionFinishedMsg{kind: kind, key: key, ref: ref, err: err}
	}
}

func actionStatus(kind dialogKind, ref *snow.RecordRef) string {
	number := ""
	if ref != nil {
		number = ref.Number
	}
	switch kind {
	case dialogCreate:
		return fmt.Sprintf("created %s", number)
	case dialogUpdate:
		return fmt.Sprintf("updated %s", number)
	case dialogResolve:
		return fmt.Sprintf("resolved %s", number)
	case dialogClose:
		return fmt.Sprintf("closed %s", number)
	}
	return ""
}

type renderedRecordMsg struct {
	ref     *snow.RecordRef
	content string
	err     error
}

func renderRecord(m *model, ref *snow.RecordRef) tea.Cmd {
	summary := m.summarize(ref)
	renderer := m.markdownRenderer

	return func() tea.Msg {
		t, err := recordTemplate(summary)
		if err != nil {
			return renderedRecordMsg{ref: ref, err: err}
		}

		if renderer == nil {
			return renderedRecordMsg{ref: ref, content: t}
		}

		content, err := renderer.Render(t)
		return renderedRecordMsg{ref: ref, content: content, err: err}
	}
}

type browserFinishedMsg struct {
	err error
}

func openBrowserCmd(l launcher.BrowserLauncher, url string) tea.Cmd {
	return func() tea.Msg {
		debug("tui.openBrowserCmd(): opening browser", "url", url)

		c, err := l.Command(url)
		if err != nil {
			return browserFinishedMsg{err}
		}
		debug("tui.openBrowserCmd()", "command", c.String())

		stderr, err := c.StderrPipe()
		if err != nil {
			return browserFinishedMsg{err}
		}

		if err := c.Start(); err != nil {
			return browserFinishedMsg{err}
		}

		out, err := io.ReadAll(stderr)
		if err != nil {
			return browserFinishedMsg{err}
		}

		if err := c.Wait(); err != nil {
			if len(out) > 0 {
				return browserFinishedMsg{fmt.Errorf("%w: %s", err, out)}
			}
			return browserFinishedMsg{err}
		}

		return browserFinishedMsg{}
	}
}
