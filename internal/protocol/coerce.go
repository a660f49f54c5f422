package protocol

// coerce.go handles the messy cell values real protocol files contain:
// German decimal commas, thousands separators, Excel serial dates, and a
// spread of date layouts. Coercion never hard-fails; callers get a
// false/zero result and decide what to do with the row.

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a date cell.
// German forms first because that is what the source files use.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system (accounting for the
// historical leap-year bug, hence Dec 30 rather than 31).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// CoerceQuantity parses a quantity cell into a non-negative number.
// Accepts decimal commas and strips whitespace and thousands separators.
// Returns false for empty, non-numeric, or negative values.
func CoerceQuantity(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	// "1.234,50" -> "1234.50"; "1,5" -> "1.5"
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, " ", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// CoerceDate parses a date cell into ISO calendar form (2006-01-02).
// Handles Excel serial dates and the layouts in dateLayouts.
// Returns false when nothing parses.
func CoerceDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == strings.Repeat("#", len(s)) {
		return "", false
	}

	// Excel serial date: days since the 1900 epoch.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 200000 {
			return "", false
		}
		return excelEpoch.AddDate(0, 0, int(serial)).Format("2006-01-02"), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// CleanString trims whitespace and collapses internal runs of spaces.
func CleanString(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
