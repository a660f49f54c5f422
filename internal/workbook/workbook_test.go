package workbook

import "testing"

func TestValidAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"A1", true},
		{"C4", true},
		{"AA12", true},
		{"b4", true}, // case-insensitive
		{"A0", false},
		{"1A", false},
		{"A", false},
		{"", false},
		{"AAAA1", false},
	}

	for _, tt := range tests {
		if got := ValidAddr(tt.addr); got != tt.want {
			t.Errorf("ValidAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestValidColumn(t *testing.T) {
	for col, want := range map[string]bool{"A": true, "x": true, "AB": true, "": false, "A1": false} {
		if got := ValidColumn(col); got != want {
			t.Errorf("ValidColumn(%q) = %v, want %v", col, got, want)
		}
	}
}

func TestAddr(t *testing.T) {
	if got := Addr("b", 12); got != "B12" {
		t.Errorf("Addr() = %q, want B12", got)
	}
}

func TestMem(t *testing.T) {
	wb := NewMem("Protokoll")

	if !wb.HasSheet("Protokoll") || wb.HasSheet("Andere") {
		t.Error("HasSheet mismatch")
	}

	if err := wb.SetCell("Protokoll", "C4", "PR-1"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	got, err := wb.Cell("Protokoll", "C4")
	if err != nil || got != "PR-1" {
		t.Errorf("Cell() = %q, %v", got, err)
	}

	// Unwritten cells read as empty, not as an error.
	got, err = wb.Cell("Protokoll", "Z99")
	if err != nil || got != "" {
		t.Errorf("empty cell = %q, %v", got, err)
	}

	if _, err := wb.Cell("Andere", "A1"); err == nil {
		t.Error("Cell() on missing sheet should fail")
	}
	if err := wb.SetCell("Andere", "A1", 1); err == nil {
		t.Error("SetCell() on missing sheet should fail")
	}
}

func TestMem_CloneIsIndependent(t *testing.T) {
	wb := NewMem("S")
	wb.SetCell("S", "A1", "orig")

	clone := wb.Clone()
	clone.SetCell("S", "A1", "changed")

	if got, _ := wb.Cell("S", "A1"); got != "orig" {
		t.Errorf("original mutated through clone: %q", got)
	}
}
