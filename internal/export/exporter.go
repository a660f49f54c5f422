// Package export turns a finished protocol record into a filled document
// workbook. Export is the final gate of the workflow: a record that still
// carries validation errors is refused, not exported partially.
package export

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
	"github.com/SBreitkreuz/pruefdoc/internal/validate"
	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
)

// Document types an export can produce.
const (
	DocBilling  = "aufmass"
	DocProtocol = "protokoll"
)

// ErrValidation is returned when the record still has blocking issues.
// The issues are carried alongside so the caller can show them.
type ErrValidation struct {
	Issues []validate.Issue
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("export refused: %d validation errors", len(e.Issues))
}

// Exporter fills template workbooks from protocol records.
type Exporter struct {
	template *workbook.TemplateCache
	mapping  protocol.TemplateMapping
}

// New creates an exporter bound to a template file and its cell mapping.
// The mapping is validated here so a broken layout fails at startup.
func New(template *workbook.TemplateCache, mapping protocol.TemplateMapping) (*Exporter, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{template: template, mapping: mapping}, nil
}

// Export validates the full record, opens a fresh copy of the template,
// fills it, and returns the finished workbook bytes plus the export file
// name. Warnings do not block, errors do.
func (e *Exporter) Export(docType string, m protocol.Metadata, entries []protocol.PositionEntry, r protocol.Results) ([]byte, string, error) {
	if docType != DocBilling && docType != DocProtocol {
		return nil, "", fmt.Errorf("export: unknown document type %q", docType)
	}

	issues := validate.ForStep(validate.StepReview, m, entries, r)
	if validate.HasErrors(issues) {
		return nil, "", &ErrValidation{Issues: validate.Filter(issues, validate.SeverityError)}
	}

	wb, err := e.template.Fresh()
	if err != nil {
		return nil, "", fmt.Errorf("export: open template: %w", err)
	}
	defer wb.Close()

	if err := FillTemplate(wb, e.mapping, m, entries, r); err != nil {
		return nil, "", err
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, "", fmt.Errorf("export: serialize workbook: %w", err)
	}

	name := FileName(docType, m.ProtocolNumber, m.Date, "xlsx")
	slog.Info("exported document",
		"documentType", docType,
		"fileName", name,
		"positions", len(entries),
		"warnings", len(validate.Filter(issues, validate.SeverityWarning)),
	)
	return data, name, nil
}

// FillTemplate writes metadata, aggregated positions, and results into the
// workbook according to the mapping. Aggregation happens here so the
// template always receives one row per position code regardless of how
// many source rows contributed.
func FillTemplate(wb workbook.Workbook, mapping protocol.TemplateMapping, m protocol.Metadata, entries []protocol.PositionEntry, r protocol.Results) error {
	if !wb.HasSheet(mapping.Sheet) {
		return fmt.Errorf("export: template sheet %q not found", mapping.Sheet)
	}

	for _, cell := range mapping.Cells {
		value := protocol.FieldValue(m, cell.Field)
		if err := wb.SetCell(mapping.Sheet, cell.Address, value); err != nil {
			return fmt.Errorf("export: write %s: %w", cell.Address, err)
		}
	}

	aggs := protocol.Aggregate(entries)
	layout := mapping.Positions
	if len(aggs) > layout.MaxRows {
		return fmt.Errorf("export: %d aggregated positions exceed template capacity %d", len(aggs), layout.MaxRows)
	}
	for i, agg := range aggs {
		row := layout.StartRow + i
		if err := wb.SetCell(mapping.Sheet, workbook.Addr(layout.CodeColumn, row), agg.PosCode); err != nil {
			return fmt.Errorf("export: write position row %d: %w", row, err)
		}
		if err := wb.SetCell(mapping.Sheet, workbook.Addr(layout.QuantityColumn, row), agg.TotalQuantity); err != nil {
			return fmt.Errorf("export: write position row %d: %w", row, err)
		}
	}

	// Results land below the position table in a fixed block.
	resultsRow := layout.StartRow + layout.MaxRows + 2
	resultCells := []struct {
		offset int
		value  string
	}{
		{0, r.Device},
		{1, r.DeviceSerial},
		{2, outcomeLabel(r.Outcome)},
		{3, r.Remarks},
	}
	for _, rc := range resultCells {
		addr := workbook.Addr(layout.CodeColumn, resultsRow+rc.offset)
		if err := wb.SetCell(mapping.Sheet, addr, rc.value); err != nil {
			return fmt.Errorf("export: write results: %w", err)
		}
	}

	return nil
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case "passed":
		return "Keine Mängel festgestellt"
	case "defects_found":
		return "Mängel festgestellt"
	}
	return outcome
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._\-]+`)

// FileName builds the export file name from the document type, the
// protocol number, and the protocol date. Unsafe characters are replaced
// so the name survives every filesystem and Content-Disposition header.
func FileName(docType, protocolNumber, isoDate, ext string) string {
	num := unsafeNameChars.ReplaceAllString(strings.TrimSpace(protocolNumber), "-")
	num = strings.Trim(num, "-")
	if num == "" {
		num = "unbenannt"
	}
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		isoDate = time.Now().Format("2006-01-02")
	}
	return fmt.Sprintf("%s_%s_%s.%s", docType, num, isoDate, ext)
}
