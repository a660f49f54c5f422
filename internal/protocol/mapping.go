package protocol

// mapping.go declares where data lives in source and template workbooks.
// The mapping tables are the single source of truth for cell locations:
// a changed spreadsheet layout means editing a table here, never the
// extraction or export algorithms. Mappings are validated once at startup
// so a typo fails fast instead of producing silently empty fields.

import (
	"fmt"
	"strings"

	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
)

// CellType is the expected data type of a mapped cell.
type CellType int

const (
	CellString CellType = iota
	CellNumber
	CellDate
)

// MetadataCell maps one metadata field to a fixed cell address.
type MetadataCell struct {
	Field    string   // Metadata field name, e.g. "protocolNumber"
	Address  string   // A1-style cell address
	Type     CellType // Expected data type
	Required bool     // Field must be non-empty for the record to be export-ready
}

// MetadataMapping locates the metadata block of a protocol sheet.
type MetadataMapping struct {
	Sheet string
	Cells []MetadataCell
}

// PositionScan describes the row window holding position entries.
// QuantityColumns are probed in order; the first cell that coerces to a
// non-negative number wins. Real-world files move the quantity column
// around, which is why this is a candidate list and not a single column.
type PositionScan struct {
	Sheet           string
	StartRow        int
	EndRow          int
	CodeColumn      string
	QuantityColumns []string
}

// PositionLayout describes where aggregated positions are written in the
// billing template: one row per aggregated code, starting at StartRow,
// bounded by MaxRows.
type PositionLayout struct {
	StartRow       int
	MaxRows        int
	CodeColumn     string
	QuantityColumn string
}

// TemplateMapping locates the writable cells of the billing template.
type TemplateMapping struct {
	Sheet     string
	Cells     []MetadataCell
	Positions PositionLayout
}

// metadataFields is the set of field names a MetadataCell may target.
var metadataFields = map[string]bool{
	"protocolNumber": true,
	"orderNumber":    true,
	"plant":          true,
	"location":       true,
	"company":        true,
	"client":         true,
	"date":           true,
}

// Validate checks the mapping for unknown fields, malformed addresses, and
// duplicate targets. Called once at startup.
func (m MetadataMapping) Validate() error {
	if strings.TrimSpace(m.Sheet) == "" {
		return fmt.Errorf("metadata mapping: sheet name is empty")
	}
	seen := make(map[string]bool, len(m.Cells))
	for _, c := range m.Cells {
		if !metadataFields[c.Field] {
			return fmt.Errorf("metadata mapping: unknown field %q", c.Field)
		}
		if seen[c.Field] {
			return fmt.Errorf("metadata mapping: duplicate field %q", c.Field)
		}
		seen[c.Field] = true
		if !workbook.ValidAddr(c.Address) {
			return fmt.Errorf("metadata mapping: field %q has invalid address %q", c.Field, c.Address)
		}
	}
	return nil
}

// Validate checks the scan window and column references.
func (s PositionScan) Validate() error {
	if strings.TrimSpace(s.Sheet) == "" {
		return fmt.Errorf("position scan: sheet name is empty")
	}
	if s.StartRow < 1 || s.EndRow < s.StartRow {
		return fmt.Errorf("position scan: invalid row window %d..%d", s.StartRow, s.EndRow)
	}
	if !workbook.ValidColumn(s.CodeColumn) {
		return fmt.Errorf("position scan: invalid code column %q", s.CodeColumn)
	}
	if len(s.QuantityColumns) == 0 {
		return fmt.Errorf("position scan: no quantity column candidates")
	}
	for _, col := range s.QuantityColumns {
		if !workbook.ValidColumn(col) {
			return fmt.Errorf("position scan: invalid quantity column %q", col)
		}
	}
	return nil
}

// Validate checks the template cells and the position layout.
func (t TemplateMapping) Validate() error {
	if err := (MetadataMapping{Sheet: t.Sheet, Cells: t.Cells}).Validate(); err != nil {
		return fmt.Errorf("template %v", err)
	}
	p := t.Positions
	if p.StartRow < 1 {
		return fmt.Errorf("template mapping: invalid position start row %d", p.StartRow)
	}
	if p.MaxRows < 1 {
		return fmt.Errorf("template mapping: invalid position max rows %d", p.MaxRows)
	}
	if !workbook.ValidColumn(p.CodeColumn) || !workbook.ValidColumn(p.QuantityColumn) {
		return fmt.Errorf("template mapping: invalid position columns %q/%q", p.CodeColumn, p.QuantityColumn)
	}
	return nil
}

// DefaultProtocolMapping locates the metadata block of the standard
// inspection protocol form.
func DefaultProtocolMapping() MetadataMapping {
	return MetadataMapping{
		Sheet: "Protokoll",
		Cells: []MetadataCell{
			{Field: "protocolNumber", Address: "C4", Type: CellString, Required: true},
			{Field: "orderNumber", Address: "C5", Type: CellString, Required: true},
			{Field: "plant", Address: "C6", Type: CellString, Required: true},
			{Field: "location", Address: "C7", Type: CellString, Required: true},
			{Field: "company", Address: "G4", Type: CellString, Required: true},
			{Field: "client", Address: "G5", Type: CellString, Required: true},
			{Field: "date", Address: "G6", Type: CellDate, Required: false},
		},
	}
}

// DefaultPositionScan locates the position table of the standard form.
// Column X is the current quantity column; B and C are layouts seen in
// older revisions of the form.
func DefaultPositionScan() PositionScan {
	return PositionScan{
		Sheet:           "Positionen",
		StartRow:        3,
		EndRow:          200,
		CodeColumn:      "A",
		QuantityColumns: []string{"X", "B", "C"},
	}
}

// DefaultTemplateMapping locates the writable cells of the billing template.
func DefaultTemplateMapping() TemplateMapping {
	return TemplateMapping{
		Sheet: "Aufmass",
		Cells: []MetadataCell{
			{Field: "protocolNumber", Address: "D3", Type: CellString, Required: true},
			{Field: "orderNumber", Address: "D4", Type: CellString, Required: true},
			{Field: "plant", Address: "D5", Type: CellString, Required: false},
			{Field: "location", Address: "D6", Type: CellString, Required: false},
			{Field: "company", Address: "H3", Type: CellString, Required: false},
			{Field: "client", Address: "H4", Type: CellString, Required: false},
			{Field: "date", Address: "H5", Type: CellDate, Required: false},
		},
		Positions: PositionLayout{
			StartRow:       10,
			MaxRows:        200,
			CodeColumn:     "B",
			QuantityColumn: "F",
		},
	}
}
