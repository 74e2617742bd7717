package importer

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fichetrack/internal/imputation"
	"fichetrack/internal/model"
	"fichetrack/internal/parser"
	"fichetrack/internal/store"
)

// Coordinator runs one upload end to end: parse, validate, version, expand
// daily schedules, persist. Parsing is pure and everything it produces is
// written in a single transaction, so a failed ingestion leaves no state.
type Coordinator struct {
	store *store.Store
	log   *zap.SugaredLogger
}

// NewCoordinator creates an ingestion coordinator.
func NewCoordinator(st *store.Store, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{store: st, log: log}
}

// Result summarizes a successful ingestion. InvalidCollaborators reports
// the rows dropped as non-fatal diagnostics.
type Result struct {
	ProjectID            string   `json:"projectId"`
	VersionID            string   `json:"versionId"`
	VersionNumber        int      `json:"versionNumber"`
	CollaboratorCount    int      `json:"collaboratorCount"`
	DailyRowCount        int      `json:"dailyRowCount"`
	InvalidCollaborators []string `json:"invalidCollaborators,omitempty"`
}

// Ingest processes raw workbook bytes uploaded by actorID.
//
// Failure modes, all before any persistence: parser.ErrSheetNotFound for a
// workbook without the fiche sheet, *NoValidCollaboratorsError when every
// row was rejected, *DuplicateUploadError when the content hash already
// exists.
func (c *Coordinator) Ingest(data []byte, actorID string) (*Result, error) {
	parsed, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	if len(parsed.Collaborators) == 0 {
		return nil, &NoValidCollaboratorsError{Invalid: parsed.InvalidCollaborators}
	}

	existing, err := c.store.GetVersionByHash(parsed.FileHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate upload: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateUploadError{VersionID: existing.ID}
	}

	project, isNew, versionNumber, err := c.resolveProject(parsed.Metadata, actorID)
	if err != nil {
		return nil, err
	}

	version := &model.InstructionVersion{
		ID:             uuid.New().String(),
		ProjectID:      project.ID,
		VersionNumber:  versionNumber,
		FileHash:       parsed.FileHash,
		FileName:       fmt.Sprintf("%s-v%d.xlsx", project.ID, versionNumber),
		Demandeur:      parsed.Metadata.Demandeur,
		ChargeTotale:   parsed.Metadata.ChargeTotale,
		DateDebut:      parsed.Metadata.DateDebut,
		DateMEP:        parsed.Metadata.DateMEP,
		DateValidation: parsed.Metadata.DateValidation,
		Status:         model.StatusNonImpute,
		UploadedBy:     actorID,
	}

	batch := &store.IngestionBatch{
		Project:      project,
		ProjectIsNew: isNew,
		Version:      version,
	}

	for i := range parsed.Planning {
		plan := parsed.Planning[i]
		plan.ID = uuid.New().String()
		plan.VersionID = version.ID
		batch.Plannings = append(batch.Plannings, &plan)
	}

	dailyTotal := 0
	for _, charge := range parsed.Collaborators {
		line := &model.CollaboratorLine{
			CollaboratorCharge: charge,
			ID:                 uuid.New().String(),
			VersionID:          version.ID,
			UserID:             actorID,
		}

		cb := &store.CollaboratorBatch{Line: line}
		for _, daily := range imputation.GenerateDaily(charge, parsed.Planning) {
			daily.ID = uuid.New().String()
			daily.CollaboratorID = line.ID
			daily.UserID = actorID
			d := daily
			cb.Dailies = append(cb.Dailies, &d)
		}
		dailyTotal += len(cb.Dailies)
		batch.Collaborators = append(batch.Collaborators, cb)
	}

	if err := c.store.SaveIngestion(batch); err != nil {
		return nil, fmt.Errorf("failed to persist ingestion: %w", err)
	}

	c.log.Infow("ingested instruction sheet",
		"project", project.ID,
		"version", versionNumber,
		"collaborators", len(batch.Collaborators),
		"dailyRows", dailyTotal,
		"rejectedRows", len(parsed.InvalidCollaborators),
	)

	return &Result{
		ProjectID:            project.ID,
		VersionID:            version.ID,
		VersionNumber:        versionNumber,
		CollaboratorCount:    len(batch.Collaborators),
		DailyRowCount:        dailyTotal,
		InvalidCollaborators: parsed.InvalidCollaborators,
	}, nil
}

// resolveProject finds the project owning this fiche family or prepares a
// new one, and picks the next version number.
func (c *Coordinator) resolveProject(meta parser.Metadata, actorID string) (*model.Project, bool, int, error) {
	project, err := c.store.GetProjectByKey(meta.Filiale, meta.Reference, actorID)
	if err != nil {
		return nil, false, 0, fmt.Errorf("failed to look up project: %w", err)
	}

	if project != nil {
		latest, err := c.store.LatestVersionNumber(project.ID)
		if err != nil {
			return nil, false, 0, err
		}
		return project, false, latest + 1, nil
	}

	project = &model.Project{
		ID:        uuid.New().String(),
		Filiale:   meta.Filiale,
		Reference: meta.Reference,
		Titre:     meta.Titre,
		Contexte:  meta.Contexte,
		UserID:    actorID,
	}
	return project, true, 1, nil
}
