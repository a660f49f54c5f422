package validate

import "regexp"

// Step names the workflow stages in their fixed order.
type Step string

const (
	StepMetadata  Step = "metadata"
	StepPositions Step = "positions"
	StepResults   Step = "results"
	StepReview    Step = "review"
)

// StepOrder lists the steps in workflow order.
var StepOrder = []Step{StepMetadata, StepPositions, StepResults, StepReview}

var (
	posCodePattern  = regexp.MustCompile(`^(\d+\.)+$`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	protoNumPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-/_.]*$`)
)

func f(v float64) *float64 { return &v }

// fieldRules maps field keys to their rules. Metadata and results fields
// use their full path as key. Position fields use the relative key
// "position.<field>" because position paths embed the entry ID.
var fieldRules = map[string]Rules{
	"metadata.protocolNumber": {
		Required:   true,
		MaxLen:     40,
		Pattern:    protoNumPattern,
		PatternMsg: "Protokollnummer enthält unzulässige Zeichen",
	},
	"metadata.orderNumber": {Required: true, MaxLen: 40},
	"metadata.plant":       {Required: true, MaxLen: 120},
	"metadata.location":    {Required: true, MaxLen: 120},
	"metadata.company":     {Required: true, MaxLen: 120},
	"metadata.client":      {Required: true, MaxLen: 120},
	"metadata.date": {
		Required:   true,
		Pattern:    isoDatePattern,
		PatternMsg: "Datum muss im Format JJJJ-MM-TT vorliegen",
		NoFuture:   true,
	},

	"position.posCode": {
		Required:   true,
		Pattern:    posCodePattern,
		PatternMsg: "Positionscode muss aus Ziffern und Punkten bestehen und mit Punkt enden",
	},
	"position.quantity": {Required: true, Min: f(0)},
	"position.circuit":  {MaxLen: 40},
	"position.cableType": {MaxLen: 60},
	// Insulation resistance in megaohm. Values outside the plausible
	// measuring range are warnings, not errors.
	"position.risoOhne": {Min: f(0.01), Max: f(10000), Severity: SeverityWarning},
	"position.risoMit":  {Min: f(0.01), Max: f(10000), Severity: SeverityWarning},

	"results.device":       {Required: true, MaxLen: 80},
	"results.deviceSerial": {MaxLen: 60},
	"results.outcome": {
		Required: true,
		Enum:     []string{"passed", "defects_found"},
	},
	"results.remarks": {MaxLen: 500},
}

// stepFields maps each workflow step to the field-rule keys it validates.
// Review validates everything.
var stepFields = map[Step][]string{
	StepMetadata: {
		"metadata.protocolNumber", "metadata.orderNumber", "metadata.plant",
		"metadata.location", "metadata.company", "metadata.client", "metadata.date",
	},
	StepPositions: {
		"position.posCode", "position.quantity", "position.circuit",
		"position.cableType", "position.risoOhne", "position.risoMit",
	},
	StepResults: {
		"results.device", "results.deviceSerial", "results.outcome", "results.remarks",
	},
}

// RulesFor looks up the rules for a field key.
func RulesFor(key string) (Rules, bool) {
	r, ok := fieldRules[key]
	return r, ok
}

// KnownField reports whether the field key has rules defined.
func KnownField(key string) bool {
	_, ok := fieldRules[key]
	return ok
}
