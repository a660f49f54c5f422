package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rules declares the checks for one field. Checks run in a fixed order and
// the first violation wins, so a field yields at most one issue per pass:
// required, then length, then pattern, then range, then enum, then date.
type Rules struct {
	Required   bool
	MinLen     int
	MaxLen     int
	Pattern    *regexp.Regexp
	PatternMsg string
	Min        *float64
	Max        *float64
	Enum       []string
	NoFuture   bool // ISO date must not lie in the future
	Severity   Severity
}

// Field validates a single value against its rules. A nil return means the
// value passed. An empty optional field always passes without running the
// remaining checks.
func Field(path, value string, r Rules) *Issue {
	sev := r.Severity
	if sev == "" {
		sev = SeverityError
	}

	value = strings.TrimSpace(value)
	if value == "" {
		if r.Required {
			return &Issue{FieldPath: path, Message: "Pflichtfeld darf nicht leer sein", Severity: sev}
		}
		return nil
	}

	if r.MinLen > 0 && len([]rune(value)) < r.MinLen {
		return &Issue{
			FieldPath: path,
			Message:   fmt.Sprintf("mindestens %d Zeichen erforderlich", r.MinLen),
			Severity:  sev,
		}
	}
	if r.MaxLen > 0 && len([]rune(value)) > r.MaxLen {
		return &Issue{
			FieldPath: path,
			Message:   fmt.Sprintf("höchstens %d Zeichen erlaubt", r.MaxLen),
			Severity:  sev,
		}
	}

	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		msg := r.PatternMsg
		if msg == "" {
			msg = "ungültiges Format"
		}
		return &Issue{FieldPath: path, Message: msg, Severity: sev}
	}

	if r.Min != nil || r.Max != nil {
		n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
		if err != nil {
			return &Issue{FieldPath: path, Message: "keine gültige Zahl", Severity: sev}
		}
		if r.Min != nil && n < *r.Min {
			return &Issue{
				FieldPath: path,
				Message:   fmt.Sprintf("Wert muss mindestens %s sein", formatNum(*r.Min)),
				Severity:  sev,
			}
		}
		if r.Max != nil && n > *r.Max {
			return &Issue{
				FieldPath: path,
				Message:   fmt.Sprintf("Wert darf höchstens %s sein", formatNum(*r.Max)),
				Severity:  sev,
			}
		}
	}

	if len(r.Enum) > 0 && !contains(r.Enum, value) {
		return &Issue{
			FieldPath: path,
			Message:   fmt.Sprintf("erlaubte Werte: %s", strings.Join(r.Enum, ", ")),
			Severity:  sev,
		}
	}

	if r.NoFuture {
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return &Issue{FieldPath: path, Message: "kein gültiges Datum (JJJJ-MM-TT)", Severity: sev}
		}
		if d.After(time.Now()) {
			return &Issue{FieldPath: path, Message: "Datum darf nicht in der Zukunft liegen", Severity: sev}
		}
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
