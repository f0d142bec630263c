package tui

import (
	"testing"

	"github.com/clcollins/srenow/pkg/snow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageArea(t *testing.T) {
	tests := []struct {
		name     string
		page     snow.Page
		expected string
	}{
		{
			name:     "first page",
			page:     snow.Page{Page: 0, PageSize: 5, TotalCount: 12},
			expected: "page 1/3 (12 total)  •  5 per page",
		},
		{
			name:     "no records still shows one page",
			page:     snow.Page{Page: 0, PageSize: 10},
			expected: "page 1/1 (0 total)  •  10 per page",
		},
		{
			name:     "last page",
			page:     snow.Page{Page: 2, PageSize: 20, TotalCount: 41},
			expected: "page 3/3 (41 total)  •  20 per page",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, pageArea(test.page))
		})
	}
}

func TestStatusArea(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		loading     bool
		spinnerView string
		expected    string
	}{
		{
			name:     "formats simple status without spinner",
			input:    "showing 5/12 Incidents",
			expected: "> showing 5/12 Incidents",
		},
		{
			name:     "formats empty status without spinner",
			input:    "",
			expected: "> ",
		},
		{
			name:        "formats status with spinner while loading",
			input:       "loading Incidents...",
			loading:     true,
			spinnerView: "⣾",
			expected:    "⣾ loading Incidents...",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, statusArea(test.input, test.loading, test.spinnerView))
		})
	}
}

func TestScopeArea(t *testing.T) {
	assert.Equal(t, "Incidents [Active]", scopeArea(snow.IncidentTable, snow.Scope{}, snow.IncidentTable.StateFilter(0)))
	assert.Equal(t,
		"Change Requests [Review] for Payments API",
		scopeArea(snow.ChangeTable, snow.Scope{Name: "Payments API", CISysID: "x"}, snow.ChangeTable.StateFilter(1)),
	)
}

func TestRecordTemplate(t *testing.T) {
	out, err := recordTemplate(recordSummary{
		Table:            "Change Requests",
		Number:           "CHG0000001",
		ShortDescription: "upgrade database",
		State:            "Scheduled",
		Priority:         "2 - High",
		Risk:             "3 - Moderate",
		Start:            "2024-01-01 10:00:00",
		URL:              "https://example.service-now.com/nav_to.do?uri=change_request.do?sys_id=c1",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "# CHG0000001 - Scheduled")
	assert.Contains(t, out, "[upgrade database](https://example.service-now.com/nav_to.do?uri=change_request.do?sys_id=c1)")
	assert.Contains(t, out, "* Risk: 3 - Moderate")
	assert.Contains(t, out, "* Start: 2024-01-01 10:00:00")
	assert.NotContains(t, out, "* End:")
	assert.NotContains(t, out, "* Opened:")
	assert.Contains(t, out, "_CHANGE REQUESTS_")
}

func TestSummarize(t *testing.T) {
	m := createTestModel(&snow.MockTableClient{})
	m.incidents = []snow.Incident{
		{SysID: "a1", Number: "INC0000001", ShortDescription: "disk full", State: "2", Priority: "1", OpenedAt: "2024-05-01 09:00:00"},
	}

	s := m.summarize(&snow.RecordRef{Table: "incident", SysID: "a1", Number: "INC0000001", ShortDescription: "disk full"})
	assert.Equal(t, "In Progress", s.State)
	assert.Equal(t, "1 - Critical", s.Priority)
	assert.Equal(t, "2024-05-01 09:00:00", s.Opened)
	assert.Equal(t, "https://example.service-now.com/nav_to.do?uri=incident.do?sys_id=a1", s.URL)
}

func TestColumnsFor(t *testing.T) {
	incidentCols := columnsFor(snow.IncidentTable, 120)
	require.Len(t, incidentCols, 6)
	assert.Equal(t, "Description", incidentCols[2].Title)
	assert.Equal(t, "Opened At", incidentCols[5].Title)

	changeCols := columnsFor(snow.ChangeTable, 0)
	require.Len(t, changeCols, 8)
	assert.Equal(t, "Risk", changeCols[5].Title)

	narrow := columnsFor(snow.ChangeTable, 40)
	assert.Equal(t, 16, narrow[2].Width, "description keeps a minimum width")
}

func TestRows(t *testing.T) {
	rows := incidentRows([]snow.Incident{{Number: "INC1", ShortDescription: "x", State: "6", Priority: "1"}})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"!", "INC1", "x", "Resolved", "1 - Critical", ""}, []string(rows[0]))

	rows = changeRows([]snow.Change{{Number: "CHG1", State: "0", Priority: "2", Risk: "9"}})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"*", "CHG1", "", "Review", "2 - High", "9 - Unknown", "", ""}, []string(rows[0]))
}
