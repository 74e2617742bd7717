package store

import (
	"database/sql"
	"errors"
	"fmt"

	"fichetrack/internal/model"
)

const dailyColumns = `
	id, collaborator_id, user_id, phase, day_number, date_prevu,
	is_imputed, imputed_at, imputed_by, comment
`

// GetDaily fetches one daily imputation row, or nil when absent.
func (s *Store) GetDaily(id string) (*model.DailyImputation, error) {
	row := s.db.QueryRow(`SELECT `+dailyColumns+` FROM daily_imputations WHERE id = ?`, id)
	daily, err := scanDaily(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return daily, err
}

// ListDailyByCollaborator returns a collaborator's daily rows for one user,
// ordered by phase then day number.
func (s *Store) ListDailyByCollaborator(collaboratorID, userID string) ([]*model.DailyImputation, error) {
	rows, err := s.db.Query(`
		SELECT `+dailyColumns+` FROM daily_imputations
		WHERE collaborator_id = ? AND user_id = ?
		ORDER BY phase ASC, day_number ASC
	`, collaboratorID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily imputations: %w", err)
	}
	defer rows.Close()
	return collectDaily(rows)
}

// ListDailyByVersion returns all daily rows under a version for one user,
// ordered by collaborator name, phase, day number.
func (s *Store) ListDailyByVersion(versionID, userID string) ([]*model.DailyImputation, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.collaborator_id, d.user_id, d.phase, d.day_number, d.date_prevu,
			d.is_imputed, d.imputed_at, d.imputed_by, d.comment
		FROM daily_imputations d
		JOIN collaborator_lines c ON c.id = d.collaborator_id
		WHERE c.version_id = ? AND d.user_id = ?
		ORDER BY c.name ASC, d.phase ASC, d.day_number ASC
	`, versionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily imputations: %w", err)
	}
	defer rows.Close()
	return collectDaily(rows)
}

// CountDailyByCollaborator returns (imputed, total) for one collaborator.
func (s *Store) CountDailyByCollaborator(collaboratorID string) (imputed, total int, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(is_imputed), 0), COUNT(*)
		FROM daily_imputations
		WHERE collaborator_id = ?
	`, collaboratorID).Scan(&imputed, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count daily imputations: %w", err)
	}
	return imputed, total, nil
}

func collectDaily(rows *sql.Rows) ([]*model.DailyImputation, error) {
	var dailies []*model.DailyImputation
	for rows.Next() {
		daily, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		dailies = append(dailies, daily)
	}
	return dailies, rows.Err()
}

func scanDaily(row rowScanner) (*model.DailyImputation, error) {
	var d model.DailyImputation
	var datePrevu, imputedAt, imputedBy, comment sql.NullString

	if err := row.Scan(
		&d.ID, &d.CollaboratorID, &d.UserID, &d.Phase, &d.DayNumber, &datePrevu,
		&d.IsImputed, &imputedAt, &imputedBy, &comment,
	); err != nil {
		return nil, err
	}

	d.DatePrevu = SQLToTime(datePrevu)
	d.ImputedAt = SQLToTime(imputedAt)
	d.ImputedBy = SQLToStr(imputedBy)
	d.Comment = SQLToStr(comment)
	return &d, nil
}
