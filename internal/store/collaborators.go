package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fichetrack/internal/model"
)

const collaboratorColumns = `
	id, version_id, user_id, name,
	instruction, cadrage, conception, administration, technique,
	developpement, test_unitaire, test_integration, assistance_recette,
	deploiement, assistance_post, total,
	is_imputed, imputed_at, created_at
`

// GetCollaborator fetches one collaborator line, or nil when absent.
func (s *Store) GetCollaborator(id string) (*model.CollaboratorLine, error) {
	row := s.db.QueryRow(`SELECT `+collaboratorColumns+` FROM collaborator_lines WHERE id = ?`, id)
	line, err := scanCollaborator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return line, err
}

// ListVersionCollaborators returns all collaborator lines of a version.
func (s *Store) ListVersionCollaborators(versionID string) ([]*model.CollaboratorLine, error) {
	rows, err := s.db.Query(`
		SELECT `+collaboratorColumns+` FROM collaborator_lines
		WHERE version_id = ?
		ORDER BY name ASC
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()
	return collectCollaborators(rows)
}

// ListUserCollaborators returns every collaborator line owned by a user,
// with the count of daily rows joined in.
func (s *Store) ListUserCollaborators(userID string) ([]*model.CollaboratorLine, error) {
	rows, err := s.db.Query(`
		SELECT `+collaboratorColumns+`,
			(SELECT COUNT(*) FROM daily_imputations d WHERE d.collaborator_id = collaborator_lines.id)
		FROM collaborator_lines
		WHERE user_id = ?
		ORDER BY name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()

	var lines []*model.CollaboratorLine
	for rows.Next() {
		line, err := scanCollaboratorWithCount(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func collectCollaborators(rows *sql.Rows) ([]*model.CollaboratorLine, error) {
	var lines []*model.CollaboratorLine
	for rows.Next() {
		line, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanCollaborator(row rowScanner) (*model.CollaboratorLine, error) {
	var c model.CollaboratorLine
	var imputedAt sql.NullString
	var createdAt string

	if err := row.Scan(
		&c.ID, &c.VersionID, &c.UserID, &c.Name,
		&c.Instruction, &c.Cadrage, &c.Conception, &c.Administration, &c.Technique,
		&c.Developpement, &c.TestUnitaire, &c.TestIntegration, &c.AssistanceRecette,
		&c.Deploiement, &c.AssistancePost, &c.Total,
		&c.IsImputed, &imputedAt, &createdAt,
	); err != nil {
		return nil, err
	}

	c.ImputedAt = SQLToTime(imputedAt)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		c.CreatedAt = t
	}
	return &c, nil
}

func scanCollaboratorWithCount(row rowScanner) (*model.CollaboratorLine, error) {
	var c model.CollaboratorLine
	var imputedAt sql.NullString
	var createdAt string

	if err := row.Scan(
		&c.ID, &c.VersionID, &c.UserID, &c.Name,
		&c.Instruction, &c.Cadrage, &c.Conception, &c.Administration, &c.Technique,
		&c.Developpement, &c.TestUnitaire, &c.TestIntegration, &c.AssistanceRecette,
		&c.Deploiement, &c.AssistancePost, &c.Total,
		&c.IsImputed, &imputedAt, &createdAt,
		&c.DailyCount,
	); err != nil {
		return nil, err
	}

	c.ImputedAt = SQLToTime(imputedAt)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		c.CreatedAt = t
	}
	return &c, nil
}
