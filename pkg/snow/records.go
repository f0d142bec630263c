package snow

import (
	"fmt"
	"strings"
)

// Table describes a ServiceNow table and the table-specific codes srenow writes to it
type Table struct {
	Name   string
	Label  string
	Fields []string

	// State codes written by the resolve and close actions
	ResolveState string
	CloseState   string
	// CloseCode is sent along with CloseState when the table requires one
	CloseCode string

	StateFilters []StateFilter
}

// StateFilter is a named, trusted query fragment used to filter by state
type StateFilter struct {
	Label    string
	Fragment string
}

var (
	IncidentTable = Table{
		Name:         "incident",
		Label:        "Incidents",
		Fields:       []string{"sys_id", "number", "short_description", "state", "priority", "opened_at"},
		ResolveState: "6",
		CloseState:   "7",
		StateFilters: []StateFilter{
			{Label: "Active", Fragment: "active=true"},
			{Label: "Resolved", Fragment: "state=6"},
			{Label: "Closed", Fragment: "state=7"},
			{Label: "All", Fragment: ""},
		},
	}

	ChangeTable = Table{
		Name:         "change_request",
		Label:        "Change Requests",
		Fields:       []string{"sys_id", "number", "short_description", "state", "priority", "risk", "start_date", "end_date"},
		ResolveState: "0",
		CloseState:   "3",
		CloseCode:    "successful",
		StateFilters: []StateFilter{
			{Label: "Active", Fragment: "active=true"},
			{Label: "Review", Fragment: "state=0"},
			{Label: "Closed", Fragment: "state=3"},
			{Label: "All", Fragment: ""},
		},
	}
)

// LookupTable returns the Table for a table name; "change" is accepted as shorthand
func LookupTable(name string) (Table, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", IncidentTable.Name, "incidents":
		return IncidentTable, nil
	case ChangeTable.Name, "change", "changes":
		return ChangeTable, nil
	}
	return Table{}, fmt.Errorf("snow.LookupTable(): unknown table `%v`", name)
}

// FieldList is the comma-separated sysparm_fields value for the table
func (t Table) FieldList() string {
	return strings.Join(t.Fields, ",")
}

// StateFilter returns the filter preset at index i, wrapping around
func (t Table) StateFilter(i int) StateFilter {
	if len(t.StateFilters) == 0 {
		return StateFilter{Label: "All"}
	}
	n := len(t.StateFilters)
	return t.StateFilters[((i%n)+n)%n]
}

// StateFilterIndex returns the index of the preset whose label matches (case-insensitive)
func (t Table) StateFilterIndex(label string) (int, bool) {
	for i, f := range t.StateFilters {
		if strings.EqualFold(f.Label, label) {
			return i, true
		}
	}
	return 0, false
}

// Incident is a subset of a ServiceNow incident record
type Incident struct {
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
	State            string `json:"state"`
	Priority         string `json:"priority"`
	OpenedAt         string `json:"opened_at"`
}

// Ref returns a RecordRef pointing at the incident
func (i Incident) Ref() RecordRef {
	return RecordRef{Table: IncidentTable.Name, SysID: i.SysID, Number: i.Number, ShortDescription: i.ShortDescription}
}

// Change is a subset of a ServiceNow change_request record
type Change struct {
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
	State            string `json:"state"`
	Priority         string `json:"priority"`
	Risk             string `json:"risk"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

// Ref returns a RecordRef pointing at the change request
func (c Change) Ref() RecordRef {
	return RecordRef{Table: ChangeTable.Name, SysID: c.SysID, Number: c.Number, ShortDescription: c.ShortDescription}
}

// RecordRef identifies a single record independently of its table
type RecordRef struct {
	Table            string `json:"table"`
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
}

// Fields is a set of record fields sent on create or update
type Fields map[string]string

// RecordURL returns the link to a record in the ServiceNow UI
func RecordURL(instanceURL string, table string, sysID string) string {
	return fmt.Sprintf("%s/nav_to.do?uri=%s.do?sys_id=%s", strings.TrimSuffix(instanceURL, "/"), table, sysID)
}
