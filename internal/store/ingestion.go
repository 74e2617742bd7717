package store

import (
	"fmt"

	"fichetrack/internal/model"
)

// IngestionBatch is everything one upload produces. SaveIngestion writes it
// in a single transaction: either the whole version lands or nothing does.
type IngestionBatch struct {
	Project      *model.Project
	ProjectIsNew bool
	Version      *model.InstructionVersion
	Plannings    []*model.PlanningPhase
	// Collaborators carry their generated daily rows.
	Collaborators []*CollaboratorBatch
}

// CollaboratorBatch pairs a collaborator line with its daily schedule.
type CollaboratorBatch struct {
	Line    *model.CollaboratorLine
	Dailies []*model.DailyImputation
}

// SaveIngestion persists one parsed upload atomically.
func (s *Store) SaveIngestion(batch *IngestionBatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if batch.ProjectIsNew {
		p := batch.Project
		if _, err := tx.Exec(`
			INSERT INTO projects (id, filiale, reference, titre, contexte, user_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, p.Filiale, p.Reference, StrToSQL(p.Titre), StrToSQL(p.Contexte), p.UserID); err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}
	}

	v := batch.Version
	if _, err := tx.Exec(`
		INSERT INTO instruction_versions (
			id, project_id, version_number, file_hash, file_name, demandeur,
			charge_totale, date_debut, date_mep, date_validation, status, uploaded_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.ProjectID, v.VersionNumber, v.FileHash, v.FileName, StrToSQL(v.Demandeur),
		v.ChargeTotale, TimeToSQL(v.DateDebut), TimeToSQL(v.DateMEP), TimeToSQL(v.DateValidation),
		string(v.Status), v.UploadedBy); err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}

	planStmt, err := tx.Prepare(`
		INSERT INTO planning_phases (id, version_id, phase, start_date, end_date, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare planning insert: %w", err)
	}
	defer planStmt.Close()

	for _, p := range batch.Plannings {
		if _, err := planStmt.Exec(p.ID, v.ID, p.Phase, TimeToSQL(p.StartDate), TimeToSQL(p.EndDate), StrToSQL(p.Note)); err != nil {
			return fmt.Errorf("failed to insert planning phase: %w", err)
		}
	}

	collabStmt, err := tx.Prepare(`
		INSERT INTO collaborator_lines (
			id, version_id, user_id, name,
			instruction, cadrage, conception, administration, technique,
			developpement, test_unitaire, test_integration, assistance_recette,
			deploiement, assistance_post, total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare collaborator insert: %w", err)
	}
	defer collabStmt.Close()

	dailyStmt, err := tx.Prepare(`
		INSERT INTO daily_imputations (id, collaborator_id, user_id, phase, day_number, date_prevu)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily insert: %w", err)
	}
	defer dailyStmt.Close()

	for _, cb := range batch.Collaborators {
		c := cb.Line
		if _, err := collabStmt.Exec(
			c.ID, v.ID, c.UserID, c.Name,
			c.Instruction, c.Cadrage, c.Conception, c.Administration, c.Technique,
			c.Developpement, c.TestUnitaire, c.TestIntegration, c.AssistanceRecette,
			c.Deploiement, c.AssistancePost, c.Total,
		); err != nil {
			return fmt.Errorf("failed to insert collaborator %q: %w", c.Name, err)
		}

		for _, d := range cb.Dailies {
			if _, err := dailyStmt.Exec(d.ID, c.ID, c.UserID, d.Phase, d.DayNumber, TimeToSQL(d.DatePrevu)); err != nil {
				return fmt.Errorf("failed to insert daily imputation: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingestion: %w", err)
	}
	return nil
}
