package protocol

// extract.go reads a protocol out of a source workbook using the declarative
// mappings. Extraction is deliberately forgiving: one missing field or one
// unparseable row never aborts the pass. All anomalies are collected into
// the result so the caller can show a single report and decide whether to
// proceed. Only infrastructure problems (nil workbook, missing sheet)
// surface as errors.

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
)

// MetadataResult is the outcome of one metadata extraction pass.
type MetadataResult struct {
	Metadata        Metadata
	MissingRequired []string // required fields whose cells were empty
}

// ExtractMetadata reads the metadata block declared by the mapping.
// Required fields that are empty are recorded in MissingRequired and the
// pass continues. Unparseable dates fall back to now's calendar date with a
// logged warning so a bad date cell never blocks an import.
func ExtractMetadata(wb workbook.Workbook, m MetadataMapping, now time.Time) (MetadataResult, error) {
	if wb == nil {
		return MetadataResult{}, fmt.Errorf("extract metadata: nil workbook")
	}
	if !wb.HasSheet(m.Sheet) {
		return MetadataResult{}, fmt.Errorf("extract metadata: sheet %q not found", m.Sheet)
	}

	result := MetadataResult{Metadata: Metadata{ImportedAt: now}}

	for _, cell := range m.Cells {
		raw, err := wb.Cell(m.Sheet, cell.Address)
		if err != nil {
			return MetadataResult{}, fmt.Errorf("extract metadata: %w", err)
		}

		value := CleanString(raw)
		if value == "" {
			if cell.Required {
				result.MissingRequired = append(result.MissingRequired, cell.Field)
			}
			continue
		}

		if cell.Type == CellDate {
			iso, ok := CoerceDate(value)
			if !ok {
				iso = now.Format("2006-01-02")
				slog.Warn("unparseable date cell, using extraction date",
					"field", cell.Field,
					"address", cell.Address,
					"raw", value,
				)
			}
			value = iso
		}

		setMetadataField(&result.Metadata, cell.Field, value)
	}

	return result, nil
}

// setMetadataField assigns a coerced value to the named metadata field.
// Field names were validated against the mapping at startup.
func setMetadataField(m *Metadata, field, value string) {
	switch field {
	case "protocolNumber":
		m.ProtocolNumber = value
	case "orderNumber":
		m.OrderNumber = value
	case "plant":
		m.Plant = value
	case "location":
		m.Location = value
	case "company":
		m.Company = value
	case "client":
		m.Client = value
	case "date":
		m.Date = value
	}
}

// FieldValue reads the named metadata field as a string. Both extraction
// and template export address metadata fields by mapping name.
func FieldValue(m Metadata, field string) string {
	switch field {
	case "protocolNumber":
		return m.ProtocolNumber
	case "orderNumber":
		return m.OrderNumber
	case "plant":
		return m.Plant
	case "location":
		return m.Location
	case "company":
		return m.Company
	case "client":
		return m.Client
	case "date":
		return m.Date
	}
	return ""
}

// ExtractPositions scans the configured row window for position entries.
// Rows with an empty code cell are skipped (blank rows are normal in the
// form). Rows whose quantity coerces in none of the candidate columns are
// included with Valid=false so the caller can report them instead of
// silently dropping rows. Category-header codes are included with
// Leaf=false; the aggregator excludes them.
func ExtractPositions(wb workbook.Workbook, scan PositionScan) ([]PositionEntry, error) {
	if wb == nil {
		return nil, fmt.Errorf("extract positions: nil workbook")
	}
	if !wb.HasSheet(scan.Sheet) {
		return nil, fmt.Errorf("extract positions: sheet %q not found", scan.Sheet)
	}

	var entries []PositionEntry
	for row := scan.StartRow; row <= scan.EndRow; row++ {
		raw, err := wb.Cell(scan.Sheet, workbook.Addr(scan.CodeColumn, row))
		if err != nil {
			return nil, fmt.Errorf("extract positions: %w", err)
		}

		code := CleanString(raw)
		if code == "" {
			continue
		}

		entry := PositionEntry{
			PosCode:   code,
			SourceRow: row,
			Leaf:      IsLeafCode(code),
		}

		for _, col := range scan.QuantityColumns {
			cell, err := wb.Cell(scan.Sheet, workbook.Addr(col, row))
			if err != nil {
				return nil, fmt.Errorf("extract positions: %w", err)
			}
			if qty, ok := CoerceQuantity(cell); ok {
				entry.Quantity = qty
				entry.Valid = true
				break
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
