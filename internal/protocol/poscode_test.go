package protocol

import (
	"reflect"
	"testing"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
		leaf  bool
		segs  []string
	}{
		{"leaf code", "01.01.0010.", true, true, []string{"01", "01", "0010"}},
		{"another leaf", "02.03.1234.", true, true, []string{"02", "03", "1234"}},
		{"category header two segments", "01.01.", true, false, []string{"01", "01"}},
		{"top level category", "01.", true, false, []string{"01"}},
		{"short terminal segment", "01.01.010.", true, false, []string{"01", "01", "010"}},
		{"deep leaf", "01.02.03.0010.", true, true, []string{"01", "02", "03", "0010"}},
		{"missing trailing dot", "01.01.0010", false, false, nil},
		{"letters in segment", "01.AB.0010.", false, false, nil},
		{"empty segment", "01..0010.", false, false, nil},
		{"empty string", "", false, false, nil},
		{"only dot", ".", false, false, nil},
		{"whitespace", "  ", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseCode(tt.input)
			if info.Valid != tt.valid {
				t.Errorf("ParseCode(%q).Valid = %v, want %v", tt.input, info.Valid, tt.valid)
			}
			if info.Leaf != tt.leaf {
				t.Errorf("ParseCode(%q).Leaf = %v, want %v", tt.input, info.Leaf, tt.leaf)
			}
			if tt.valid && !reflect.DeepEqual(info.Segments, tt.segs) {
				t.Errorf("ParseCode(%q).Segments = %v, want %v", tt.input, info.Segments, tt.segs)
			}
		})
	}
}

func TestIsLeafCode(t *testing.T) {
	if !IsLeafCode("01.01.0010.") {
		t.Error("IsLeafCode should accept a three-segment code with four-digit terminal")
	}
	if IsLeafCode("01.01.") {
		t.Error("IsLeafCode should reject a category header")
	}
	if IsLeafCode("garbage") {
		t.Error("IsLeafCode should reject malformed input")
	}
}
