package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"missing sheet", errors.New(`extract metadata: sheet "Protokoll" not found`), "WB001"},
		{"not an xlsx", errors.New("zip: not a valid zip file"), "WB002"},
		{"step gated", errors.New("step metadata has validation errors"), "VAL001"},
		{"unknown field", errors.New(`unknown field "metadata.nope"`), "VAL002"},
		{"first step", errors.New("already at first step"), "STEP001"},
		{"last step", errors.New("already at last step"), "STEP002"},
		{"session gone", errors.New("session not found: abc"), "STEP003"},
		{"db down", errors.New("dial tcp: connection refused"), "DRAFT001"},
		{"newer snapshot", errors.New("draft: snapshot schema 2 is newer than supported 1"), "DRAFT002"},
		{"export gate", errors.New("export refused: 3 validation errors"), "EXP001"},
		{"too many rows", errors.New("export: 300 aggregated positions exceed template capacity 200"), "EXP002"},
		{"bad doc type", errors.New(`export: unknown document type "rechnung"`), "EXP003"},
		{"fallback", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %s, want %s", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("MapError(%v) incomplete: %+v", tt.err, got)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestMapError_CaseInsensitive(t *testing.T) {
	got := MapError(errors.New("CONNECTION REFUSED"))
	if got.Code != "DRAFT001" {
		t.Errorf("Code = %s, want DRAFT001", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	s := FormatUserError(errors.New("already at first step"))
	if !strings.Contains(s, "Code: STEP001") {
		t.Errorf("FormatUserError() = %q, want embedded code", s)
	}

	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestMapError_WrappedErrors(t *testing.T) {
	inner := errors.New("connection refused")
	wrapped := fmt.Errorf("resume: %w", inner)
	if got := MapError(wrapped); got.Code != "DRAFT001" {
		t.Errorf("Code = %s, want DRAFT001 through wrapping", got.Code)
	}
}
