package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// File wraps an excelize workbook behind the Workbook interface.
type File struct {
	f *excelize.File
}

// Open reads a workbook container from disk.
func Open(path string) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// OpenReader reads a workbook container from an in-memory stream,
// typically an uploaded file.
func OpenReader(r io.Reader) (*File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &File{f: f}, nil
}

// Sheets returns the sheet names in workbook order.
func (w *File) Sheets() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether the workbook contains the named sheet.
func (w *File) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Cell returns the formatted value of a cell, or "" for empty cells.
func (w *File) Cell(sheet, addr string) (string, error) {
	v, err := w.f.GetCellValue(sheet, addr)
	if err != nil {
		return "", fmt.Errorf("read cell %s!%s: %w", sheet, addr, err)
	}
	return v, nil
}

// SetCell writes a value into a cell. Cells never written through SetCell
// keep their original content, including formulas and formatting.
func (w *File) SetCell(sheet, addr string, value any) error {
	if err := w.f.SetCellValue(sheet, addr, value); err != nil {
		return fmt.Errorf("write cell %s!%s: %w", sheet, addr, err)
	}
	return nil
}

// Bytes serializes the workbook into an xlsx container.
func (w *File) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook container to disk.
func (w *File) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (w *File) Close() error {
	return w.f.Close()
}

// verify the excelize wrapper satisfies the gateway contract
var _ Workbook = (*File)(nil)

// Mem is an in-memory Workbook used by tests and previews. The zero value is
// not usable; construct it with NewMem.
type Mem struct {
	sheets []string
	cells  map[string]string
}

// NewMem creates an in-memory workbook with the given sheets.
func NewMem(sheets ...string) *Mem {
	if len(sheets) == 0 {
		sheets = []string{"Sheet1"}
	}
	return &Mem{sheets: sheets, cells: make(map[string]string)}
}

func (m *Mem) key(sheet, addr string) string { return sheet + "!" + addr }

func (m *Mem) Sheets() []string { return m.sheets }

func (m *Mem) HasSheet(name string) bool {
	for _, s := range m.sheets {
		if s == name {
			return true
		}
	}
	return false
}

func (m *Mem) Cell(sheet, addr string) (string, error) {
	if !m.HasSheet(sheet) {
		return "", fmt.Errorf("read cell %s!%s: sheet not found", sheet, addr)
	}
	return m.cells[m.key(sheet, addr)], nil
}

func (m *Mem) SetCell(sheet, addr string, value any) error {
	if !m.HasSheet(sheet) {
		return fmt.Errorf("write cell %s!%s: sheet not found", sheet, addr)
	}
	m.cells[m.key(sheet, addr)] = fmt.Sprintf("%v", value)
	return nil
}

var _ Workbook = (*Mem)(nil)

// Clone returns an independent copy of the in-memory workbook.
func (m *Mem) Clone() *Mem {
	c := NewMem(m.sheets...)
	for k, v := range m.cells {
		c.cells[k] = v
	}
	return c
}
