package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fichetrack/internal/model"
)

const versionColumns = `
	id, project_id, version_number, file_hash, file_name, demandeur,
	charge_totale, date_debut, date_mep, date_validation, status,
	uploaded_by, imputed_by, created_at
`

// GetVersionByHash finds the version ingested from byte-identical content,
// or nil. This is the duplicate-upload lookup.
func (s *Store) GetVersionByHash(fileHash string) (*model.InstructionVersion, error) {
	row := s.db.QueryRow(`SELECT `+versionColumns+` FROM instruction_versions WHERE file_hash = ?`, fileHash)
	version, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return version, err
}

// GetVersion fetches one version by id, or nil when absent.
func (s *Store) GetVersion(id string) (*model.InstructionVersion, error) {
	row := s.db.QueryRow(`SELECT `+versionColumns+` FROM instruction_versions WHERE id = ?`, id)
	version, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return version, err
}

// LatestVersionNumber returns the highest version number under a project,
// 0 when the project has none yet.
func (s *Store) LatestVersionNumber(projectID string) (int, error) {
	var n sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(version_number) FROM instruction_versions WHERE project_id = ?
	`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest version number: %w", err)
	}
	return int(n.Int64), nil
}

// ListVersions returns a project's versions, newest first.
func (s *Store) ListVersions(projectID string) ([]*model.InstructionVersion, error) {
	rows, err := s.db.Query(`
		SELECT `+versionColumns+` FROM instruction_versions
		WHERE project_id = ?
		ORDER BY version_number DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []*model.InstructionVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

// ListPlannings returns a version's seven planning phases in sheet order.
func (s *Store) ListPlannings(versionID string) ([]*model.PlanningPhase, error) {
	rows, err := s.db.Query(`
		SELECT id, version_id, phase, start_date, end_date, note
		FROM planning_phases
		WHERE version_id = ?
		ORDER BY rowid
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plannings: %w", err)
	}
	defer rows.Close()

	var plannings []*model.PlanningPhase
	for rows.Next() {
		var p model.PlanningPhase
		var start, end, note sql.NullString
		if err := rows.Scan(&p.ID, &p.VersionID, &p.Phase, &start, &end, &note); err != nil {
			return nil, err
		}
		p.StartDate = SQLToTime(start)
		p.EndDate = SQLToTime(end)
		p.Note = SQLToStr(note)
		plannings = append(plannings, &p)
	}
	return plannings, rows.Err()
}

func scanVersion(row rowScanner) (*model.InstructionVersion, error) {
	var v model.InstructionVersion
	var demandeur, dateDebut, dateMEP, dateValidation, imputedBy sql.NullString
	var status, createdAt string

	if err := row.Scan(
		&v.ID, &v.ProjectID, &v.VersionNumber, &v.FileHash, &v.FileName, &demandeur,
		&v.ChargeTotale, &dateDebut, &dateMEP, &dateValidation, &status,
		&v.UploadedBy, &imputedBy, &createdAt,
	); err != nil {
		return nil, err
	}

	v.Demandeur = SQLToStr(demandeur)
	v.DateDebut = SQLToTime(dateDebut)
	v.DateMEP = SQLToTime(dateMEP)
	v.DateValidation = SQLToTime(dateValidation)
	v.Status = model.ImputationStatus(status)
	v.ImputedBy = SQLToStr(imputedBy)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		v.CreatedAt = t
	}
	return &v, nil
}
