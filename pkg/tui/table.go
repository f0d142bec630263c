package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/clcollins/srenow/pkg/snow"
)

const (
	dot = "•"

	initialTableHeight = 20
	initialTableWidth  = 120

	dotWidth    = 1
	numberWidth = 12
	stateWidth  = 12
	labelWidth  = 14
	dateWidth   = 19
)

// columnsFor sizes the columns for table t to fit width; the description
// column takes whatever is left
func columnsFor(t snow.Table, width int) []table.Column {
	if width <= 0 {
		width = initialTableWidth
	}
	cellPadding := 2

	fixed := []table.Column{
		{Title: dot, Width: dotWidth},
		{Title: "Number", Width: numberWidth},
	}
	var trailing []table.Column

	switch t.Name {
	case snow.ChangeTable.Name:
		trailing = []table.Column{
			{Title: "State", Width: stateWidth},
			{Title: "Priority", Width: labelWidth},
			{Title: "Risk", Width: labelWidth},
			{Title: "Start", Width: dateWidth},
			{Title: "End", Width: dateWidth},
		}
	default:
		trailing = []table.Column{
			{Title: "State", Width: stateWidth},
			{Title: "Priority", Width: labelWidth},
			{Title: "Opened At", Width: dateWidth},
		}
	}

	used := 0
	for _, c := range append(fixed, trailing...) {
		used += c.Width + cellPadding
	}
	description := max(width-used-cellPadding-2, 16)

	columns := append(fixed, table.Column{Title: "Description", Width: description})
	return append(columns, trailing...)
}

// severityMarker is the first-column indicator for a record's priority
func severityMarker(s snow.Severity) string {
	switch s {
	case snow.SeverityCritical:
		return "!"
	case snow.SeverityWarning:
		return "*"
	}
	return dot
}

func incidentRows(incidents []snow.Incident) []table.Row {
	rows := make([]table.Row, 0, len(incidents))
	for _, i := range incidents {
		p := snow.PriorityLabel(i.Priority)
		rows = append(rows, table.Row{
			severityMarker(p.Severity),
			i.Number,
			i.ShortDescription,
			snow.StateLabel(snow.IncidentTable.Name, i.State),
			p.String(),
			i.OpenedAt,
		})
	}
	return rows
}

func changeRows(changes []snow.Change) []table.Row {
	rows := make([]table.Row, 0, len(changes))
	for _, c := range changes {
		p := snow.PriorityLabel(c.Priority)
		rows = append(rows, table.Row{
			severityMarker(p.Severity),
			c.Number,
			c.ShortDescription,
			snow.StateLabel(snow.ChangeTable.Name, c.State),
			p.String(),
			snow.RiskLabel(c.Risk).String(),
			c.StartDate,
			c.EndDate,
		})
	}
	return rows
}
