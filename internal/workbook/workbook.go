// Package workbook isolates the rest of the application from the spreadsheet
// codec. The core only ever sees sheets, A1-style addresses, and string cell
// values; opening, saving, and the binary container format live behind the
// Workbook interface so extraction and export logic can be tested without
// touching a real file.
package workbook

import (
	"fmt"
	"regexp"
	"strings"
)

// Workbook is the narrow contract the extractor and exporter depend on.
// Cell returns the empty string for cells that are empty or absent.
type Workbook interface {
	Sheets() []string
	HasSheet(name string) bool
	Cell(sheet, addr string) (string, error)
	SetCell(sheet, addr string, value any) error
}

// addrPattern matches A1-style cell addresses ("B4", "AA12").
var addrPattern = regexp.MustCompile(`^[A-Z]{1,3}[1-9][0-9]*$`)

// colPattern matches bare column references ("B", "AA").
var colPattern = regexp.MustCompile(`^[A-Z]{1,3}$`)

// ValidAddr reports whether s is a well-formed A1-style cell address.
func ValidAddr(s string) bool {
	return addrPattern.MatchString(strings.ToUpper(s))
}

// ValidColumn reports whether s is a well-formed column reference.
func ValidColumn(s string) bool {
	return colPattern.MatchString(strings.ToUpper(s))
}

// Addr builds a cell address from a column reference and a 1-based row.
func Addr(column string, row int) string {
	return fmt.Sprintf("%s%d", strings.ToUpper(column), row)
}
