package snow

import "fmt"

// Severity is a coarse classification used for colouring labels
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityOK
	SeverityWarning
	SeverityCritical
)

// Label is a display string for a code plus its severity
type Label struct {
	Text     string
	Severity Severity
}

func (l Label) String() string { return l.Text }

var priorityLabels = map[string]Label{
	"1": {"1 - Critical", SeverityCritical},
	"2": {"2 - High", SeverityWarning},
	"3": {"3 - Moderate", SeverityOK},
	"4": {"4 - Low", SeverityNeutral},
	"5": {"5 - Planning", SeverityNeutral},
}

var riskLabels = map[string]Label{
	"1": {"1 - Very High", SeverityCritical},
	"2": {"2 - High", SeverityWarning},
	"3": {"3 - Moderate", SeverityOK},
	"4": {"4 - Low", SeverityNeutral},
}

var incidentStates = map[string]string{
	"1": "New",
	"2": "In Progress",
	"3": "On Hold",
	"6": "Resolved",
	"7": "Closed",
	"8": "Canceled",
}

var changeStates = map[string]string{
	"-5": "New",
	"-4": "Assess",
	"-3": "Authorize",
	"-2": "Scheduled",
	"-1": "Implement",
	"0":  "Review",
	"3":  "Closed",
	"4":  "Canceled",
}

// PriorityChoices are the priority codes offered when creating records
var PriorityChoices = []string{"1", "2", "3", "4"}

// RiskChoices are the risk codes offered when creating change requests
var RiskChoices = []string{"1", "2", "3", "4"}

// PriorityLabel maps a priority code to its label; unmapped codes are reported as unknown
func PriorityLabel(code string) Label {
	return lookupLabel(priorityLabels, code)
}

// RiskLabel maps a change risk code to its label; unmapped codes are reported as unknown
func RiskLabel(code string) Label {
	return lookupLabel(riskLabels, code)
}

func lookupLabel(labels map[string]Label, code string) Label {
	if l, ok := labels[code]; ok {
		return l
	}
	return Label{Text: fmt.Sprintf("%s - Unknown", code), Severity: SeverityNeutral}
}

// StateLabel maps a state code for the given table to its name, or returns the code
func StateLabel(table string, code string) string {
	states := incidentStates
	if table == ChangeTable.Name {
		states = changeStates
	}
	if s, ok := states[code]; ok {
		return s
	}
	return code
}
