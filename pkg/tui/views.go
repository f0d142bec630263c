package tui

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui/style"
)

var windowSize tea.WindowSizeMsg

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())

	switch {
	case m.err != nil:
		var e strings.Builder
		e.WriteString(dot)
		e.WriteString("ERROR")
		e.WriteString(dot)
		e.WriteString("\n\n")
		e.WriteString(m.err.Error())
		e.WriteString("\n\n")
		e.WriteString(help.New().View(errorViewKeyMap))
		return style.Error.Render(e.String())

	case m.dialog.isOpen():
		s.WriteString(m.dialog.View(m.table, m.actionErr))

	case m.menu.visible:
		s.WriteString(m.menu.View())

	case m.viewingRecord:
		s.WriteString(m.recordViewer.View())

	// A failed fetch replaces the table so stale rows are never shown
	case m.fetchErr != nil:
		s.WriteString(style.Alert.Render(fmt.Sprintf("Error loading %s: %v", m.table.Label, m.fetchErr)))

	default:
		s.WriteString(style.TableContainer.Render(m.recordTable.View()))
	}

	if m.input.Focused() {
		s.WriteString("\n")
		s.WriteString(m.input.View())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	s.WriteString("\n")
	s.WriteString(style.Padded.Render(style.Help.Render(m.help.View(m.activeKeyMap()))))

	return style.Main.Render(s.String())
}

func (m model) activeKeyMap() help.KeyMap {
	switch {
	case m.err != nil:
		return errorViewKeyMap
	case m.dialog.isOpen():
		return dialogKeyMap
	case m.menu.visible:
		return menuKeyMap
	case m.input.Focused():
		return inputModeKeyMap
	case m.viewingRecord:
		return recordViewKeyMap
	}
	return defaultKeyMap
}

func (m model) renderHeader() string {
	status := statusArea(m.status, m.loading, m.spinner.View())
	scope := scopeArea(m.table, m.scope(), m.table.StateFilter(m.stateIdx))

	statusWidth := max(windowSize.Width-lipgloss.Width(scope)-style.Padded.GetHorizontalFrameSize()*2, 0)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		style.Padded.Width(statusWidth).Render(status),
		style.Padded.Render(scope),
	) + "\n"
}

func (m model) renderFooter() string {
	parts := []string{pageArea(m.page)}
	if m.description != "" {
		parts = append(parts, fmt.Sprintf("description contains %q", m.description))
	}
	return style.Padded.Render(strings.Join(parts, "  "+dot+"  "))
}

func statusArea(s string, loading bool, spinnerView string) string {
	if loading {
		return fmt.Sprintf("%s %s", spinnerView, s)
	}
	return fmt.Sprintf("> %s", s)
}

func scopeArea(t snow.Table, scope snow.Scope, state snow.StateFilter) string {
	s := fmt.Sprintf("%s [%s]", t.Label, state.Label)
	if scope.Name != "" {
		s = fmt.Sprintf("%s for %s", s, scope.Name)
	}
	return s
}

// pageArea renders the pagination footer, for example "page 2/3 (12 total)"
func pageArea(p snow.Page) string {
	return fmt.Sprintf("page %d/%d (%d total)  %s  %d per page", p.Page+1, p.TotalPages(), p.TotalCount, dot, p.PageSize)
}

type recordSummary struct {
	Table            string
	Number           string
	ShortDescription string
	State            string
	Priority         string
	Risk             string
	Opened           string
	Start            string
	End              string
	URL              string
}

// summarize collects the display values for ref from the loaded page
func (m model) summarize(ref *snow.RecordRef) recordSummary {
	s := recordSummary{
		Table:            m.table.Label,
		Number:           ref.Number,
		ShortDescription: ref.ShortDescription,
		URL:              m.recordURL(ref),
	}

	switch ref.Table {
	case snow.ChangeTable.Name:
		for _, c := range m.changes {
			if c.SysID == ref.SysID {
				s.State = snow.StateLabel(ref.Table, c.State)
				s.Priority = snow.PriorityLabel(c.Priority).String()
				s.Risk = snow.RiskLabel(c.Risk).String()
				s.Start = c.StartDate
				s.End = c.EndDate
			}
		}
	default:
		for _, i := range m.incidents {
			if i.SysID == ref.SysID {
				s.State = snow.StateLabel(ref.Table, i.State)
				s.Priority = snow.PriorityLabel(i.Priority).String()
				s.Opened = i.OpenedAt
			}
		}
	}
	return s
}

var funcMap = template.FuncMap{
	"ToLink": func(s, link string) string {
		return fmt.Sprintf("[%s](%s)", s, link)
	},
	"ToUpper": strings.ToUpper,
}

const detailTemplate = `
# {{ .Number }} - {{ .State }}

{{ if .URL }}{{ ToLink .ShortDescription .URL }}{{ else }}{{ .ShortDescription }}{{ end }}

* Priority: {{ .Priority }}
{{- if .Risk }}
* Risk: {{ .Risk }}
{{- end }}
{{- if .Opened }}
* Opened: {{ .Opened }}
{{- end }}
{{- if .Start }}
* Start: {{ .Start }}
{{- end }}
{{- if .End }}
* End: {{ .End }}
{{- end }}

_{{ ToUpper .Table }}_
`

func recordTemplate(s recordSummary) (string, error) {
	t, err := template.New("record").Funcs(funcMap).Parse(detailTemplate)
	if err != nil {
		return "", err
	}

	o := new(bytes.Buffer)
	if err := t.Execute(o, s); err != nil {
		return "", err
	}

	return o.String(), nil
}
