package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui/style"
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogCreate
	dialogUpdate
	dialogResolve
	dialogClose
)

func (k dialogKind) String() string {
	switch k {
	case dialogCreate:
		return "create"
	case dialogUpdate:
		return "update"
	case dialogResolve:
		return "resolve"
	case dialogClose:
		return "close"
	}
	return "none"
}

// needsTarget reports whether the dialog acts on an existing record
func (k dialogKind) needsTarget() bool {
	return k == dialogUpdate || k == dialogResolve || k == dialogClose
}

const (
	shortDescLimit    = 160
	closeNotesLimit   = 4000
	defaultInputWidth = 60
)

var (
	errDialogOpen    = errors.New("another dialog is already open")
	errNoTarget      = errors.New("no record selected")
	errUnknownDialog = errors.New("unknown dialog")
)

// dialog is the modal dialog state. At most one dialog is open at a time and
// update, resolve and close always carry the record they act on.
type dialog struct {
	kind   dialogKind
	target *snow.RecordRef
	input  textinput.Model

	// create keeps the create form between openings until a create succeeds
	create     snow.CreateOptions
	submitting bool
}

func newDialog() dialog {
	i := textinput.New()
	i.Prompt = " > "
	i.Width = defaultInputWidth
	return dialog{input: i, create: snow.NewCreateOptions()}
}

func (d dialog) isOpen() bool {
	return d.kind != dialogNone
}

// open returns the dialog opened as kind, or an error if the transition is not allowed
func (d dialog) open(kind dialogKind, target *snow.RecordRef) (dialog, error) {
	if d.isOpen() {
		return d, fmt.Errorf("cannot open %s: %w", kind, errDialogOpen)
	}
	if kind == dialogNone || kind > dialogClose {
		return d, errUnknownDialog
	}
	if kind.needsTarget() && target == nil {
		return d, fmt.Errorf("cannot open %s: %w", kind, errNoTarget)
	}

	d.kind = kind
	d.target = target
	d.submitting = false
	d.input.Reset()

	switch kind {
	case dialogCreate:
		d.target = nil
		d.input.Placeholder = "short description"
		d.input.CharLimit = shortDescLimit
		d.input.SetValue(d.create.ShortDescription)
	case dialogUpdate:
		d.input.Placeholder = "short description"
		d.input.CharLimit = shortDescLimit
		d.input.SetValue(target.ShortDescription)
	case dialogResolve, dialogClose:
		d.input.Placeholder = "close notes"
		d.input.CharLimit = closeNotesLimit
	}

	d.input.Focus()
	return d, nil
}

// close dismisses the dialog, keeping any unsent create form
func (d dialog) close() dialog {
	if d.kind == dialogCreate {
		d.create.ShortDescription = d.input.Value()
	}
	d.kind = dialogNone
	d.target = nil
	d.submitting = false
	d.input.Blur()
	d.input.Reset()
	return d
}

// actionKey identifies the remote write the dialog submits: the kind plus
// the target sys_id, or the kind alone for create
func (d dialog) actionKey() string {
	return actionKey(d.kind, d.target)
}

func actionKey(kind dialogKind, target *snow.RecordRef) string {
	if target == nil {
		return kind.String()
	}
	return kind.String() + "/" + target.SysID
}

// resetCreate clears the create form back to its defaults
func (d dialog) resetCreate() dialog {
	d.create = snow.NewCreateOptions()
	return d
}

func (d dialog) cyclePriority() dialog {
	d.create.Priority = nextChoice(snow.PriorityChoices, d.create.Priority)
	return d
}

func (d dialog) cycleRisk() dialog {
	d.create.Risk = nextChoice(snow.RiskChoices, d.create.Risk)
	return d
}

func nextChoice(choices []string, current string) string {
	i := slices.Index(choices, current)
	return choices[(i+1)%len(choices)]
}

// createOptions returns the create form with the typed description
func (d dialog) createOptions(ciSysID string) snow.CreateOptions {
	o := d.create
	o.ShortDescription = d.input.Value()
	o.CISysID = ciSysID
	return o
}

func (d dialog) title(table snow.Table) string {
	switch d.kind {
	case dialogCreate:
		return fmt.Sprintf("New %s", strings.TrimSuffix(table.Label, "s"))
	case dialogUpdate:
		return fmt.Sprintf("Update %s", d.target.Number)
	case dialogResolve:
		return fmt.Sprintf("Resolve %s", d.target.Number)
	case dialogClose:
		return fmt.Sprintf("Close %s", d.target.Number)
	}
	return ""
}

func (d dialog) View(table snow.Table, actionErr error) string {
	var s strings.Builder

	s.WriteString(style.DialogTitle.Render(d.title(table)))
	s.WriteString("\n\n")

	if d.target != nil && d.kind != dialogUpdate {
		s.WriteString(d.target.ShortDescription)
		s.WriteString("\n\n")
	}

	s.WriteString(d.input.View())
	s.WriteString("\n")

	if d.kind == dialogCreate {
		s.WriteString("\n")
		p := snow.PriorityLabel(d.create.Priority)
		s.WriteString("Priority: " + style.Severity(p.Severity).Render(p.String()))
		if table.Name == snow.ChangeTable.Name {
			r := snow.RiskLabel(d.create.Risk)
			s.WriteString("    Risk: " + style.Severity(r.Severity).Render(r.String()))
		}
		s.WriteString("\n")
	}

	if d.submitting {
		s.WriteString("\nsubmitting...\n")
	}

	if actionErr != nil {
		s.WriteString("\n")
		s.WriteString(style.Alert.Render(actionErr.Error()))
		s.WriteString("\n")
	}

	return style.Dialog.Render(s.String())
}
