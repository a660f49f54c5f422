package protocol

// poscode.go implements the hierarchical position-code format used by the
// billing catalog. Codes are dotted numeric segments with a trailing
// separator, e.g. "01.01.0010.". A code is a billable leaf when it has at
// least LeafMinSegments segments and its terminal segment has at least
// LeafDigitWidth digits; shorter codes ("01.", "01.01.") are category
// headers and are excluded from aggregation.

import "strings"

// LeafMinSegments is the minimum number of dotted segments for a leaf code.
const LeafMinSegments = 3

// LeafDigitWidth is the minimum digit width of a leaf code's terminal segment.
const LeafDigitWidth = 4

// CodeInfo is the parse result for a position code.
type CodeInfo struct {
	Segments []string
	Valid    bool // well-formed dotted numeric code with trailing separator
	Leaf     bool // billable leaf, not a category header
}

// ParseCode parses a position code. Codes missing the trailing separator or
// containing non-numeric segments are reported as invalid; invalid codes are
// never leaves.
func ParseCode(code string) CodeInfo {
	code = strings.TrimSpace(code)
	if code == "" || !strings.HasSuffix(code, ".") {
		return CodeInfo{}
	}

	segments := strings.Split(strings.TrimSuffix(code, "."), ".")
	for _, seg := range segments {
		if !allDigits(seg) {
			return CodeInfo{Segments: segments}
		}
	}

	info := CodeInfo{Segments: segments, Valid: true}
	if len(segments) >= LeafMinSegments && len(segments[len(segments)-1]) >= LeafDigitWidth {
		info.Leaf = true
	}
	return info
}

// IsLeafCode reports whether code is a billable leaf code.
func IsLeafCode(code string) bool {
	return ParseCode(code).Leaf
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
