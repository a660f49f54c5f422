// Package protocol provides the domain model for inspection protocols:
// metadata and position records, position-code semantics, the declarative
// cell mappings that locate data in source and template workbooks, the
// extractor that reads a protocol out of a workbook, and the aggregator
// that sums quantities per billable position code.
//
// Everything in this package is pure: no I/O beyond the workbook gateway,
// no retained state between calls.
package protocol

import "time"

// Metadata is the header block of one inspection protocol.
type Metadata struct {
	ProtocolNumber string    `json:"protocolNumber"`
	OrderNumber    string    `json:"orderNumber"`
	Plant          string    `json:"plant"`
	Location       string    `json:"location"`
	Company        string    `json:"company"`
	Client         string    `json:"client"`
	Date           string    `json:"date"`       // ISO calendar date (2006-01-02)
	ImportedAt     time.Time `json:"importedAt"` // set once on creation, immutable afterwards
}

// PositionEntry is one quantity row, either scanned from a source workbook
// or entered by the operator. Entries extracted from a workbook carry their
// source row for traceability; manually entered rows have SourceRow 0.
//
// The measurement fields (Circuit, CableType, RisoOhne, RisoMit) come from
// the circuit table of the original protocol form and are filled during the
// positions and results steps.
type PositionEntry struct {
	ID        string   `json:"id"`
	PosCode   string   `json:"posCode"`
	Quantity  float64  `json:"quantity"`
	SourceRow int      `json:"sourceRow,omitempty"`
	Valid     bool     `json:"valid"`
	Leaf      bool     `json:"leaf"`
	Circuit   string   `json:"circuit,omitempty"`
	CableType string   `json:"cableType,omitempty"`
	RisoOhne  *float64 `json:"risoOhne,omitempty"` // insulation resistance without consumers, MOhm
	RisoMit   *float64 `json:"risoMit,omitempty"`  // insulation resistance with consumers, MOhm
}

// Results is the outcome block recorded in the results step.
type Results struct {
	Device       string `json:"device"`
	DeviceSerial string `json:"deviceSerial"`
	Outcome      string `json:"outcome"` // "passed" or "defects_found"
	Remarks      string `json:"remarks"`
}

// AggregatedPosition is the summed quantity for one billable position code.
type AggregatedPosition struct {
	PosCode       string  `json:"posCode"`
	TotalQuantity float64 `json:"totalQuantity"`
}
