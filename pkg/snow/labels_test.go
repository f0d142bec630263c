package snow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityLabel(t *testing.T) {
	tests := []struct {
		code     string
		expected Label
	}{
		{code: "1", expected: Label{"1 - Critical", SeverityCritical}},
		{code: "2", expected: Label{"2 - High", SeverityWarning}},
		{code: "3", expected: Label{"3 - Moderate", SeverityOK}},
		{code: "4", expected: Label{"4 - Low", SeverityNeutral}},
		{code: "5", expected: Label{"5 - Planning", SeverityNeutral}},
		{code: "9", expected: Label{"9 - Unknown", SeverityNeutral}},
		{code: "", expected: Label{" - Unknown", SeverityNeutral}},
	}

	for _, test := range tests {
		t.Run("priority "+test.code, func(t *testing.T) {
			assert.Equal(t, test.expected, PriorityLabel(test.code))
		})
	}
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "1 - Very High", RiskLabel("1").String())
	assert.Equal(t, "4 - Low", RiskLabel("4").String())
	assert.Equal(t, "7 - Unknown", RiskLabel("7").String())
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		code     string
		expected string
	}{
		{name: "incident resolved", table: IncidentTable.Name, code: "6", expected: "Resolved"},
		{name: "incident closed", table: IncidentTable.Name, code: "7", expected: "Closed"},
		{name: "change review", table: ChangeTable.Name, code: "0", expected: "Review"},
		{name: "change new", table: ChangeTable.Name, code: "-5", expected: "New"},
		{name: "unknown code falls back to the raw code", table: IncidentTable.Name, code: "42", expected: "42"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, StateLabel(test.table, test.code))
		})
	}
}

func TestLookupTable(t *testing.T) {
	tbl, err := LookupTable("change")
	assert.NoError(t, err)
	assert.Equal(t, ChangeTable.Name, tbl.Name)

	tbl, err = LookupTable("")
	assert.NoError(t, err)
	assert.Equal(t, IncidentTable.Name, tbl.Name)

	_, err = LookupTable("problem")
	assert.Error(t, err)
}

func TestTableStateFilter(t *testing.T) {
	assert.Equal(t, "Active", IncidentTable.StateFilter(0).Label)
	assert.Equal(t, "Active", IncidentTable.StateFilter(4).Label, "index wraps around")
	assert.Equal(t, "All", IncidentTable.StateFilter(-1).Label)

	i, ok := ChangeTable.StateFilterIndex("closed")
	assert.True(t, ok)
	assert.Equal(t, "state=3", ChangeTable.StateFilter(i).Fragment)
}

func TestRecordURL(t *testing.T) {
	assert.Equal(t,
		"https://example.service-now.com/nav_to.do?uri=incident.do?sys_id=abc",
		RecordURL("https://example.service-now.com/", "incident", "abc"),
	)
}
