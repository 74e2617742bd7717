package parser

// The fiche layout is positional: the organization's template never moves.
// All cell addresses live here so a template change touches only this file.

// SheetName is the one workbook sheet this pipeline reads.
const SheetName = "Fiche Instruction"

// Metadata coordinates. Label cells resolve to the first non-empty value
// within labelScanWidth cells to their right.
const (
	cellFiliale      = "D3"
	cellReference    = "D4"
	labelDemandeur   = "A6"
	cellTitre        = "B7"
	cellContexte     = "E7"
	cellChargeTotale = "D10"
	cellDateDebut    = "D11"
	cellDateMEP      = "D12"
	labelDateValid   = "E9"

	labelScanWidth = 5
)

// Collaborator block: one row per collaborator, bounded, terminated early
// by the sentinel label in the name column.
const (
	collabFirstRow = 18
	collabLastRow  = 30
	collabNameCol  = "A"
	collabTotalCol = "L"

	// sentinelRow marks the summary row under the collaborator block;
	// it and everything after it are not collaborator data.
	sentinelRowLabel = "Charge / phase"
)

// chargeColumns maps each charge field to its column in the collaborator
// block. The template merges administration and technique under one
// "Administration Technique" column, so both read E.
var chargeColumns = []struct {
	Field  string
	Column string
}{
	{"instruction", "B"},
	{"cadrage", "C"},
	{"conception", "D"},
	{"administration", "E"},
	{"technique", "E"},
	{"developpement", "F"},
	{"testUnitaire", "G"},
	{"testIntegration", "H"},
	{"assistanceRecette", "I"},
	{"deploiement", "J"},
	{"assistancePost", "K"},
}

// Planning block: seven rows in vocabulary order.
const (
	planningFirstRow = 32
	planningPhaseCol = "A"
	planningStartCol = "B"
	planningEndCol   = "C"
)
