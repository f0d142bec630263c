package snow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	active := IncidentTable.StateFilter(0)

	tests := []struct {
		name     string
		scope    Scope
		filter   Filter
		expected string
	}{
		{
			name:     "empty scope and filter produce an empty query",
			expected: "",
		},
		{
			name:     "state filter only",
			filter:   Filter{State: active},
			expected: "active=true",
		},
		{
			name:     "empty description filter omits the LIKE clause",
			scope:    Scope{CISysID: "abc123"},
			filter:   Filter{State: active, Description: ""},
			expected: "cmdb_ci=abc123^active=true",
		},
		{
			name:     "description filter adds a LIKE clause",
			scope:    Scope{CISysID: "abc123"},
			filter:   Filter{State: active, Description: "disk full"},
			expected: "cmdb_ci=abc123^active=true^short_descriptionLIKEdisk full",
		},
		{
			name:     "annotation query is used as a trusted fragment",
			scope:    Scope{Query: "assignment_group=sre^priority<=2"},
			filter:   Filter{State: IncidentTable.StateFilter(3)},
			expected: "assignment_group=sre^priority<=2",
		},
		{
			name:     "separator in user input is escaped",
			filter:   Filter{Description: "foo^active=false"},
			expected: "short_descriptionLIKEfoo^^active=false",
		},
		{
			name:     "line breaks in user input are dropped",
			filter:   Filter{Description: "foo\r\nbar"},
			expected: "short_descriptionLIKEfoobar",
		},
		{
			name:     "whitespace-only description is ignored",
			filter:   Filter{State: active, Description: "   "},
			expected: "active=true",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, BuildQuery(test.scope, test.filter))
		})
	}
}

func TestQueryRawTrimsSeparators(t *testing.T) {
	q := NewQuery().Raw("^active=true^").Raw("").Raw("  ")
	assert.Equal(t, "active=true", q.String())
}

func TestNilQueryString(t *testing.T) {
	var q *Query
	assert.Equal(t, "", q.String())
}

func TestScopeEmpty(t *testing.T) {
	assert.True(t, Scope{Name: "payments"}.Empty())
	assert.False(t, Scope{CISysID: "abc"}.Empty())
	assert.False(t, Scope{Query: "active=true"}.Empty())
}
