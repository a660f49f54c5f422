// Package workflow drives a protocol session through its steps. A session
// owns one record, gates step advancement on validation, and notifies
// observers about changes so the web layer and the persister stay current.
package workflow

import (
	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
	"github.com/SBreitkreuz/pruefdoc/internal/validate"
)

// Record is the full working state of one protocol session.
type Record struct {
	Metadata  protocol.Metadata        `json:"metadata"`
	Positions []protocol.PositionEntry `json:"positions"`
	Results   protocol.Results         `json:"results"`
	Step      validate.Step            `json:"step"`
	Issues    []validate.Issue         `json:"issues"`
	Dirty     bool                     `json:"dirty"`
}

// stepIndex returns the position of a step in the workflow order, or -1.
func stepIndex(step validate.Step) int {
	for i, s := range validate.StepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// nextStep returns the step after the given one and whether one exists.
func nextStep(step validate.Step) (validate.Step, bool) {
	i := stepIndex(step)
	if i < 0 || i+1 >= len(validate.StepOrder) {
		return step, false
	}
	return validate.StepOrder[i+1], true
}

// prevStep returns the step before the given one and whether one exists.
func prevStep(step validate.Step) (validate.Step, bool) {
	i := stepIndex(step)
	if i <= 0 {
		return step, false
	}
	return validate.StepOrder[i-1], true
}
