package validate

import (
	"fmt"
	"strconv"

	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
)

// Metadata validates the metadata block of a record.
func Metadata(m protocol.Metadata) []Issue {
	values := map[string]string{
		"metadata.protocolNumber": m.ProtocolNumber,
		"metadata.orderNumber":    m.OrderNumber,
		"metadata.plant":          m.Plant,
		"metadata.location":       m.Location,
		"metadata.company":        m.Company,
		"metadata.client":         m.Client,
		"metadata.date":           m.Date,
	}

	var issues []Issue
	for _, key := range stepFields[StepMetadata] {
		if issue := Field(key, values[key], fieldRules[key]); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// Positions validates every position entry plus the cross-entry checks.
// Duplicate codes and circuits attach to the later occurrence so the first
// entry stays clean. A quantity of zero is legal but suspicious, so it
// yields a warning.
func Positions(entries []protocol.PositionEntry) []Issue {
	var issues []Issue

	seenCode := make(map[string]bool)
	seenCircuit := make(map[string]bool)

	for _, e := range entries {
		prefix := "positions." + e.ID + "."

		if issue := Field(prefix+"posCode", e.PosCode, fieldRules["position.posCode"]); issue != nil {
			issues = append(issues, *issue)
		}
		if issue := Field(prefix+"quantity", formatQuantity(e), fieldRules["position.quantity"]); issue != nil {
			issues = append(issues, *issue)
		}
		if issue := Field(prefix+"circuit", e.Circuit, fieldRules["position.circuit"]); issue != nil {
			issues = append(issues, *issue)
		}
		if issue := Field(prefix+"cableType", e.CableType, fieldRules["position.cableType"]); issue != nil {
			issues = append(issues, *issue)
		}
		if e.RisoOhne != nil {
			if issue := Field(prefix+"risoOhne", formatFloat(*e.RisoOhne), fieldRules["position.risoOhne"]); issue != nil {
				issues = append(issues, *issue)
			}
		}
		if e.RisoMit != nil {
			if issue := Field(prefix+"risoMit", formatFloat(*e.RisoMit), fieldRules["position.risoMit"]); issue != nil {
				issues = append(issues, *issue)
			}
		}

		if e.Valid && e.Quantity == 0 {
			issues = append(issues, Issue{
				FieldPath: prefix + "quantity",
				Message:   "Menge ist 0",
				Severity:  SeverityWarning,
			})
		}

		if e.PosCode != "" {
			if seenCode[e.PosCode] && e.Leaf {
				issues = append(issues, Issue{
					FieldPath: prefix + "posCode",
					Message:   fmt.Sprintf("Positionscode %s mehrfach vorhanden, Mengen werden summiert", e.PosCode),
					Severity:  SeverityWarning,
				})
			}
			seenCode[e.PosCode] = true
		}
		if e.Circuit != "" {
			if seenCircuit[e.Circuit] {
				issues = append(issues, Issue{
					FieldPath: prefix + "circuit",
					Message:   fmt.Sprintf("Stromkreis %s mehrfach vorhanden", e.Circuit),
					Severity:  SeverityError,
				})
			}
			seenCircuit[e.Circuit] = true
		}
	}

	return issues
}

// Results validates the results block of a record.
func Results(r protocol.Results) []Issue {
	values := map[string]string{
		"results.device":       r.Device,
		"results.deviceSerial": r.DeviceSerial,
		"results.outcome":      r.Outcome,
		"results.remarks":      r.Remarks,
	}

	var issues []Issue
	for _, key := range stepFields[StepResults] {
		if issue := Field(key, values[key], fieldRules[key]); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// ForStep validates the subset of the record the given step covers. Review
// validates the whole record.
func ForStep(step Step, m protocol.Metadata, entries []protocol.PositionEntry, r protocol.Results) []Issue {
	switch step {
	case StepMetadata:
		return Metadata(m)
	case StepPositions:
		return Positions(entries)
	case StepResults:
		return Results(r)
	case StepReview:
		var issues []Issue
		issues = append(issues, Metadata(m)...)
		issues = append(issues, Positions(entries)...)
		issues = append(issues, Results(r)...)
		return issues
	}
	return nil
}

func formatQuantity(e protocol.PositionEntry) string {
	if !e.Valid {
		return ""
	}
	return formatFloat(e.Quantity)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
