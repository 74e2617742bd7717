package model

import "time"

// ImputationStatus is the three-way completion state shared by
// collaborator lines and instruction versions.
type ImputationStatus string

const (
	StatusNonImpute ImputationStatus = "NON_IMPUTE"
	StatusPartiel   ImputationStatus = "PARTIEL"
	StatusImpute    ImputationStatus = "IMPUTE"
)

// DeriveStatus recomputes a status from the full current state: imputed
// units out of total. It is a pure function of its inputs so re-running it
// after concurrent mutations always converges to the same value.
func DeriveStatus(imputed, total int) ImputationStatus {
	switch {
	case total == 0:
		return StatusNonImpute
	case imputed == total:
		return StatusImpute
	case imputed > 0:
		return StatusPartiel
	default:
		return StatusNonImpute
	}
}

// Project groups all uploaded versions of one instruction sheet family.
// Identity is (filiale, reference, owning user).
type Project struct {
	ID        string    `json:"id"`
	Filiale   string    `json:"filiale"`
	Reference string    `json:"reference"`
	Titre     *string   `json:"title"`
	Contexte  *string   `json:"context"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Versions []*InstructionVersion `json:"versions,omitempty"`
}

// InstructionVersion is one ingested snapshot of a project's sheet,
// uniquely keyed by the SHA-256 of the uploaded bytes.
type InstructionVersion struct {
	ID             string           `json:"id"`
	ProjectID      string           `json:"projectId"`
	VersionNumber  int              `json:"versionNumber"`
	FileHash       string           `json:"fileHash"`
	FileName       string           `json:"fileName"`
	Demandeur      *string          `json:"demandeur"`
	ChargeTotale   float64          `json:"chargeTotale"`
	DateDebut      *time.Time       `json:"dateDebut"`
	DateMEP        *time.Time       `json:"dateMEP"`
	DateValidation *time.Time       `json:"dateValidation"`
	Status         ImputationStatus `json:"status"`
	UploadedBy     string           `json:"uploadedBy"`
	ImputedBy      *string          `json:"imputedBy"`
	CreatedAt      time.Time        `json:"createdAt"`

	Collaborators []*CollaboratorLine `json:"collaborators,omitempty"`
	Plannings     []*PlanningPhase    `json:"plannings,omitempty"`
}

// ChargePhases lists the eleven per-collaborator charge fields in the order
// they appear in the sheet. Daily schedules are generated in this order.
var ChargePhases = []string{
	"instruction",
	"cadrage",
	"conception",
	"administration",
	"technique",
	"developpement",
	"testUnitaire",
	"testIntegration",
	"assistanceRecette",
	"deploiement",
	"assistancePost",
}

// CollaboratorCharge is the parse-level view of one accepted collaborator
// row: a validated name plus the eleven phase charges and their total.
type CollaboratorCharge struct {
	Name              string  `json:"name"`
	Instruction       float64 `json:"instruction"`
	Cadrage           float64 `json:"cadrage"`
	Conception        float64 `json:"conception"`
	Administration    float64 `json:"administration"`
	Technique         float64 `json:"technique"`
	Developpement     float64 `json:"developpement"`
	TestUnitaire      float64 `json:"testUnitaire"`
	TestIntegration   float64 `json:"testIntegration"`
	AssistanceRecette float64 `json:"assistanceRecette"`
	Deploiement       float64 `json:"deploiement"`
	AssistancePost    float64 `json:"assistancePost"`
	Total             float64 `json:"total"`
}

// Charge returns the charge for one of the ChargePhases keys.
func (c *CollaboratorCharge) Charge(phase string) float64 {
	switch phase {
	case "instruction":
		return c.Instruction
	case "cadrage":
		return c.Cadrage
	case "conception":
		return c.Conception
	case "administration":
		return c.Administration
	case "technique":
		return c.Technique
	case "developpement":
		return c.Developpement
	case "testUnitaire":
		return c.TestUnitaire
	case "testIntegration":
		return c.TestIntegration
	case "assistanceRecette":
		return c.AssistanceRecette
	case "deploiement":
		return c.Deploiement
	case "assistancePost":
		return c.AssistancePost
	}
	return 0
}

// PhaseSum is the reconciliation fallback for a missing declared total.
func (c *CollaboratorCharge) PhaseSum() float64 {
	sum := 0.0
	for _, phase := range ChargePhases {
		sum += c.Charge(phase)
	}
	return sum
}

// CollaboratorLine is a persisted collaborator row of one version.
// IsImputed and ImputedAt are caches maintained by the status cascade.
type CollaboratorLine struct {
	CollaboratorCharge

	ID        string     `json:"id"`
	VersionID string     `json:"versionId"`
	UserID    string     `json:"userId"`
	IsImputed bool       `json:"isImputed"`
	ImputedAt *time.Time `json:"imputedAt"`
	CreatedAt time.Time  `json:"createdAt"`

	// DailyCount is populated by list queries that join the daily rows.
	DailyCount int `json:"dailyCount,omitempty"`
}

// PlanningPhaseNames is the fixed 7-phase planning vocabulary, in sheet order.
var PlanningPhaseNames = []string{
	"Instruction",
	"Cadrage",
	"Conception",
	"Réalisation",
	"Recette",
	"Déploiement",
	"Post Déploiement",
}

// ChargeToPlanning maps each charge field to the planning phase whose start
// date schedules its daily rows. Several charge fields share one phase.
var ChargeToPlanning = map[string]string{
	"instruction":       "Instruction",
	"cadrage":           "Cadrage",
	"conception":        "Conception",
	"administration":    "Réalisation",
	"technique":         "Réalisation",
	"developpement":     "Réalisation",
	"testUnitaire":      "Recette",
	"testIntegration":   "Recette",
	"assistanceRecette": "Recette",
	"deploiement":       "Déploiement",
	"assistancePost":    "Post Déploiement",
}

// PlanningPhase is one row of the planning table. Exactly seven exist per
// version, one per PlanningPhaseNames entry.
type PlanningPhase struct {
	ID        string     `json:"id,omitempty"`
	VersionID string     `json:"versionId,omitempty"`
	Phase     string     `json:"phase"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Note      *string    `json:"note"`
}

// DailyImputation is one whole day of planned work for a collaborator's
// phase. dayNumber is 1-based within (collaborator, phase).
type DailyImputation struct {
	ID             string     `json:"id,omitempty"`
	CollaboratorID string     `json:"collaboratorId,omitempty"`
	UserID         string     `json:"userId,omitempty"`
	Phase          string     `json:"phase"`
	DayNumber      int        `json:"dayNumber"`
	DatePrevu      *time.Time `json:"datePrevu"`
	IsImputed      bool       `json:"isImputed"`
	ImputedAt      *time.Time `json:"imputedAt"`
	ImputedBy      *string    `json:"imputedBy"`
	Comment        *string    `json:"comment"`
}

// ImputationStats is the counts object returned by the imputation endpoints.
type ImputationStats struct {
	Total      int `json:"total"`
	Imputed    int `json:"imputed"`
	Remaining  int `json:"remaining"`
	Percentage int `json:"percentage"`
}

// NewStats builds stats from raw counts.
func NewStats(imputed, total int) ImputationStats {
	pct := 0
	if total > 0 {
		pct = int(float64(imputed)/float64(total)*100 + 0.5)
	}
	return ImputationStats{
		Total:      total,
		Imputed:    imputed,
		Remaining:  total - imputed,
		Percentage: pct,
	}
}
