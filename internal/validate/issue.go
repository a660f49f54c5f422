// Package validate checks protocol records against the field rules of the
// inspection form. It produces issues, never errors: a rule violation is
// data to show the user, not a failure of the program.
package validate

// Severity classifies an issue. Errors block step advancement and export,
// warnings are informational only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against one field.
type Issue struct {
	FieldPath string   `json:"fieldPath"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the issues matching the given severity.
func Filter(issues []Issue, sev Severity) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}
