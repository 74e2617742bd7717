package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fichetrack/internal/model"
)

// GetProjectByKey looks a project up by its natural key. Returns nil (no
// error) when none exists.
func (s *Store) GetProjectByKey(filiale, reference, userID string) (*model.Project, error) {
	row := s.db.QueryRow(`
		SELECT id, filiale, reference, titre, contexte, user_id, created_at
		FROM projects
		WHERE filiale = ? AND reference = ? AND user_id = ?
	`, filiale, reference, userID)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

// GetProject fetches one project by id, or nil when absent.
func (s *Store) GetProject(id string) (*model.Project, error) {
	row := s.db.QueryRow(`
		SELECT id, filiale, reference, titre, contexte, user_id, created_at
		FROM projects
		WHERE id = ?
	`, id)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

// ListProjects returns the projects owned by userID, optionally narrowed to
// one filiale, newest first.
func (s *Store) ListProjects(userID string, filiale *string) ([]*model.Project, error) {
	query := `
		SELECT id, filiale, reference, titre, contexte, user_id, created_at
		FROM projects
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	if filiale != nil {
		query += " AND filiale = ?"
		args = append(args, *filiale)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project; versions, collaborator lines, plannings
// and daily rows go with it through the FK cascade.
func (s *Store) DeleteProject(id string) error {
	result, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var titre, contexte sql.NullString
	var createdAt string

	if err := row.Scan(&p.ID, &p.Filiale, &p.Reference, &titre, &contexte, &p.UserID, &createdAt); err != nil {
		return nil, err
	}

	p.Titre = SQLToStr(titre)
	p.Contexte = SQLToStr(contexte)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}
