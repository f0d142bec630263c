package snow

import "strings"

// querySeparator is the encoded-query AND operator
const querySeparator = "^"

// Query composes a ServiceNow encoded query (sysparm_query)
type Query struct {
	parts []string
}

// NewQuery returns an empty Query
func NewQuery() *Query {
	return &Query{}
}

// Raw appends a trusted fragment as-is. Use it for operator-authored
// configuration (state presets, catalog annotations), never for user input.
func (q *Query) Raw(fragment string) *Query {
	fragment = strings.Trim(strings.TrimSpace(fragment), querySeparator)
	if fragment != "" {
		q.parts = append(q.parts, fragment)
	}
	return q
}

// Equals appends field=value with the value escaped; an empty value is skipped
func (q *Query) Equals(field, value string) *Query {
	value = escapeQueryValue(value)
	if value != "" {
		q.parts = append(q.parts, field+"="+value)
	}
	return q
}

// Like appends fieldLIKEvalue with the value escaped; an empty value is skipped
func (q *Query) Like(field, value string) *Query {
	value = escapeQueryValue(value)
	if value != "" {
		q.parts = append(q.parts, field+"LIKE"+value)
	}
	return q
}

// String joins the fragments with the AND operator
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	return strings.Join(q.parts, querySeparator)
}

// escapeQueryValue doubles the separator so it is read as a literal and drops
// line breaks, which the encoded-query parser treats as terminators
var queryValueReplacer = strings.NewReplacer(
	querySeparator, querySeparator+querySeparator,
	"\r", "",
	"\n", "",
)

func escapeQueryValue(v string) string {
	return queryValueReplacer.Replace(strings.TrimSpace(v))
}

// Scope restricts queries to the records associated with a catalog entity
type Scope struct {
	// Name is a display name for the scope, usually the entity name
	Name string
	// Query is a free-form encoded query fragment
	Query string
	// CISysID is the sys_id of the configuration item (cmdb_ci)
	CISysID string
}

// Empty reports whether the scope restricts anything
func (s Scope) Empty() bool {
	return s.Query == "" && s.CISysID == ""
}

// Filter is the user-controlled part of a list query
type Filter struct {
	State       StateFilter
	Description string
}

// BuildQuery composes the scope and filter into a single encoded query
func BuildQuery(scope Scope, filter Filter) string {
	return NewQuery().
		Raw(scope.Query).
		Equals("cmdb_ci", scope.CISysID).
		Raw(filter.State.Fragment).
		Like("short_description", filter.Description).
		String()
}
