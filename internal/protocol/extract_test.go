package protocol

import (
	"testing"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
)

func protocolSheet(t *testing.T) *workbook.Mem {
	t.Helper()
	wb := workbook.NewMem("Protokoll", "Positionen")
	cells := map[string]string{
		"C4": "PR-2024-0042",
		"C5": "A-1001",
		"C6": "Werk Nord",
		"C7": "Halle 7",
		"G4": "Elektro Schmidt GmbH",
		"G5": "Stadtwerke",
		"G6": "15.03.2024",
	}
	for addr, v := range cells {
		if err := wb.SetCell("Protokoll", addr, v); err != nil {
			t.Fatal(err)
		}
	}
	return wb
}

func TestExtractMetadata(t *testing.T) {
	wb := protocolSheet(t)
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	got, err := ExtractMetadata(wb, DefaultProtocolMapping(), now)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}

	if got.Metadata.ProtocolNumber != "PR-2024-0042" {
		t.Errorf("ProtocolNumber = %q", got.Metadata.ProtocolNumber)
	}
	if got.Metadata.Plant != "Werk Nord" {
		t.Errorf("Plant = %q", got.Metadata.Plant)
	}
	if got.Metadata.Date != "2024-03-15" {
		t.Errorf("Date = %q, want ISO form of the German cell", got.Metadata.Date)
	}
	if !got.Metadata.ImportedAt.Equal(now) {
		t.Errorf("ImportedAt = %v, want %v", got.Metadata.ImportedAt, now)
	}
	if len(got.MissingRequired) != 0 {
		t.Errorf("MissingRequired = %v, want none", got.MissingRequired)
	}
}

func TestExtractMetadata_MissingRequired(t *testing.T) {
	wb := protocolSheet(t)
	wb.SetCell("Protokoll", "C4", "")
	wb.SetCell("Protokoll", "C6", "   ")

	got, err := ExtractMetadata(wb, DefaultProtocolMapping(), time.Now())
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}

	want := map[string]bool{"protocolNumber": true, "plant": true}
	if len(got.MissingRequired) != len(want) {
		t.Fatalf("MissingRequired = %v, want %d fields", got.MissingRequired, len(want))
	}
	for _, f := range got.MissingRequired {
		if !want[f] {
			t.Errorf("unexpected missing field %q", f)
		}
	}
}

func TestExtractMetadata_BadDateFallsBack(t *testing.T) {
	wb := protocolSheet(t)
	wb.SetCell("Protokoll", "G6", "kein Datum")
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	got, err := ExtractMetadata(wb, DefaultProtocolMapping(), now)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if got.Metadata.Date != "2024-04-01" {
		t.Errorf("Date = %q, want fallback to extraction date", got.Metadata.Date)
	}
}

func TestExtractMetadata_MissingSheet(t *testing.T) {
	wb := workbook.NewMem("Falsch")
	if _, err := ExtractMetadata(wb, DefaultProtocolMapping(), time.Now()); err == nil {
		t.Fatal("ExtractMetadata() expected error for missing sheet")
	}
}

func TestExtractPositions(t *testing.T) {
	wb := workbook.NewMem("Positionen")
	rows := []struct {
		row  int
		code string
		col  string
		qty  string
	}{
		{3, "01.", "X", ""},           // category header, no quantity
		{4, "01.01.0010.", "X", "2"},  // leaf
		{5, "01.01.0010.", "X", "3"},  // duplicate leaf
		{6, "01.01.0020.", "B", "1,5"}, // quantity in fallback column
		{8, "01.02.0005.", "X", "abc"}, // quantity not coercible
	}
	for _, r := range rows {
		wb.SetCell("Positionen", workbook.Addr("A", r.row), r.code)
		if r.qty != "" {
			wb.SetCell("Positionen", workbook.Addr(r.col, r.row), r.qty)
		}
	}

	entries, err := ExtractPositions(wb, DefaultPositionScan())
	if err != nil {
		t.Fatalf("ExtractPositions() error = %v", err)
	}

	// Row 7 is blank and must be skipped, everything else included.
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want 5", len(entries))
	}

	header := entries[0]
	if header.Leaf {
		t.Error("category header should not be a leaf")
	}
	if header.Valid {
		t.Error("header without quantity should be invalid")
	}

	leaf := entries[1]
	if !leaf.Valid || !leaf.Leaf {
		t.Errorf("leaf entry Valid=%v Leaf=%v, want both true", leaf.Valid, leaf.Leaf)
	}
	if leaf.Quantity != 2 {
		t.Errorf("Quantity = %v, want 2", leaf.Quantity)
	}
	if leaf.SourceRow != 4 {
		t.Errorf("SourceRow = %d, want 4", leaf.SourceRow)
	}

	fallback := entries[3]
	if !fallback.Valid || fallback.Quantity != 1.5 {
		t.Errorf("fallback column entry = %+v, want Valid with 1.5", fallback)
	}

	bad := entries[4]
	if bad.Valid {
		t.Error("non-coercible quantity should leave the entry invalid, not drop it")
	}
	if !bad.Leaf {
		t.Error("leaf flag is independent of quantity validity")
	}
}

func TestExtractPositions_MissingSheet(t *testing.T) {
	wb := workbook.NewMem("Falsch")
	if _, err := ExtractPositions(wb, DefaultPositionScan()); err == nil {
		t.Fatal("ExtractPositions() expected error for missing sheet")
	}
}
