package protocol

import "testing"

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain integer", "5", 5, true},
		{"decimal point", "2.5", 2.5, true},
		{"decimal comma", "2,5", 2.5, true},
		{"thousands and comma", "1.234,50", 1234.5, true},
		{"surrounding whitespace", "  3 ", 3, true},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, false},
		{"negative comma", "-1,5", 0, false},
		{"empty", "", 0, false},
		{"text", "Stk", 0, false},
		{"mixed text", "5x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceQuantity(tt.input)
			if ok != tt.ok {
				t.Fatalf("CoerceQuantity(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("CoerceQuantity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"german date", "15.03.2024", "2024-03-15", true},
		{"german short", "5.3.2024", "2024-03-05", true},
		{"iso date", "2024-03-15", "2024-03-15", true},
		{"slash date", "15/03/2024", "2024-03-15", true},
		{"excel serial", "45366", "2024-03-15", true},
		{"excel serial day one", "1", "1899-12-31", true},
		{"serial out of range", "400000", "", false},
		{"empty", "", "", false},
		{"error cells", "####", "", false},
		{"garbage", "soon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("CoerceDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("CoerceDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Halle  7  ", "Halle 7"},
		{"Werk\tNord", "Werk Nord"},
		{"", ""},
		{"   ", ""},
		{"unchanged", "unchanged"},
	}

	for _, tt := range tests {
		if got := CleanString(tt.input); got != tt.want {
			t.Errorf("CleanString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
