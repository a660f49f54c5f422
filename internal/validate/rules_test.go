package validate

import (
	"regexp"
	"testing"
)

func TestField_Required(t *testing.T) {
	issue := Field("metadata.orderNumber", "", Rules{Required: true})
	if issue == nil {
		t.Fatal("expected issue for empty required field")
	}
	if issue.Severity != SeverityError {
		t.Errorf("Severity = %q, want error", issue.Severity)
	}
	if issue.FieldPath != "metadata.orderNumber" {
		t.Errorf("FieldPath = %q", issue.FieldPath)
	}
}

func TestField_OptionalEmptySkipsChecks(t *testing.T) {
	// An empty optional field passes even with other rules set.
	r := Rules{MinLen: 5, Pattern: regexp.MustCompile(`^\d+$`)}
	if issue := Field("metadata.client", "", r); issue != nil {
		t.Errorf("empty optional field yielded issue %+v", issue)
	}
	if issue := Field("metadata.client", "   ", r); issue != nil {
		t.Errorf("whitespace-only optional field yielded issue %+v", issue)
	}
}

func TestField_FirstViolationWins(t *testing.T) {
	// Value violates both length and pattern; only the length issue fires.
	r := Rules{MinLen: 10, Pattern: regexp.MustCompile(`^\d+$`), PatternMsg: "digits only"}
	issue := Field("f", "abc", r)
	if issue == nil {
		t.Fatal("expected issue")
	}
	if issue.Message == "digits only" {
		t.Error("pattern check ran before length check")
	}
}

func TestField_Checks(t *testing.T) {
	min, max := 0.01, 10000.0

	tests := []struct {
		name    string
		value   string
		rules   Rules
		wantHit bool
	}{
		{"within length", "abc", Rules{MinLen: 2, MaxLen: 5}, false},
		{"too long", "abcdef", Rules{MaxLen: 5}, true},
		{"pattern match", "2024-03-15", Rules{Pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)}, false},
		{"pattern miss", "15.03.2024", Rules{Pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)}, true},
		{"number in range", "500", Rules{Min: &min, Max: &max}, false},
		{"decimal comma accepted", "0,5", Rules{Min: &min, Max: &max}, false},
		{"below min", "0.001", Rules{Min: &min, Max: &max}, true},
		{"above max", "20000", Rules{Min: &min, Max: &max}, true},
		{"not a number", "viel", Rules{Min: &min}, true},
		{"enum hit", "passed", Rules{Enum: []string{"passed", "defects_found"}}, false},
		{"enum miss", "maybe", Rules{Enum: []string{"passed", "defects_found"}}, true},
		{"past date ok", "2020-01-01", Rules{NoFuture: true}, false},
		{"future date", "2999-01-01", Rules{NoFuture: true}, true},
		{"non-date with NoFuture", "bald", Rules{NoFuture: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := Field("f", tt.value, tt.rules)
			if (issue != nil) != tt.wantHit {
				t.Errorf("Field(%q, %+v) issue = %v, wantHit %v", tt.value, tt.rules, issue, tt.wantHit)
			}
		})
	}
}

func TestField_SeverityOverride(t *testing.T) {
	min := 0.01
	issue := Field("positions.x.risoOhne", "0.001", Rules{Min: &min, Severity: SeverityWarning})
	if issue == nil {
		t.Fatal("expected issue")
	}
	if issue.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want warning", issue.Severity)
	}
}

func TestHasErrors(t *testing.T) {
	warn := []Issue{{Severity: SeverityWarning}}
	if HasErrors(warn) {
		t.Error("warnings alone should not count as errors")
	}
	mixed := append(warn, Issue{Severity: SeverityError})
	if !HasErrors(mixed) {
		t.Error("error severity should be detected")
	}
	if HasErrors(nil) {
		t.Error("empty issue list has no errors")
	}
}
