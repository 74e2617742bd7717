package imputation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fichetrack/internal/model"
	"fichetrack/internal/store"
)

var (
	// ErrDailyNotFound means the daily row to toggle does not exist.
	ErrDailyNotFound = errors.New("daily imputation not found")
	// ErrVersionNotFound means the bulk-mark target version does not exist.
	ErrVersionNotFound = errors.New("version not found")
)

// Service applies imputation mutations and the cascading status
// recomputation that must follow every one of them.
type Service struct {
	store *store.Store
}

// NewService creates the imputation service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ToggleResult is the full outcome of one daily toggle: the updated row and
// the two recomputed statuses above it.
type ToggleResult struct {
	Daily              *model.DailyImputation `json:"dailyImputation"`
	CollaboratorStatus model.ImputationStatus `json:"collaboratorStatus"`
	VersionStatus      model.ImputationStatus `json:"versionStatus"`
	Stats              model.ImputationStats  `json:"stats"`
}

// Toggle sets one daily row's completion state and recomputes collaborator
// and version status from the full current state, all in one transaction.
// The recompute never applies a delta: it re-reads counts inside the
// transaction, so concurrent toggles converge regardless of order.
func (s *Service) Toggle(dailyID string, isImputed bool, actorID string, comment *string) (*ToggleResult, error) {
	now := time.Now().UTC()

	tx, err := s.store.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var imputedAt, imputedBy interface{}
	if isImputed {
		imputedAt = now.Format(time.RFC3339)
		imputedBy = actorID
	}

	result, err := tx.Exec(`
		UPDATE daily_imputations
		SET is_imputed = ?, imputed_at = ?, imputed_by = ?, comment = ?
		WHERE id = ?
	`, isImputed, imputedAt, imputedBy, store.StrToSQL(comment), dailyID)
	if err != nil {
		return nil, fmt.Errorf("failed to update daily imputation: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, ErrDailyNotFound
	}

	var collaboratorID, versionID string
	if err := tx.QueryRow(`
		SELECT c.id, c.version_id
		FROM daily_imputations d
		JOIN collaborator_lines c ON c.id = d.collaborator_id
		WHERE d.id = ?
	`, dailyID).Scan(&collaboratorID, &versionID); err != nil {
		return nil, fmt.Errorf("failed to resolve owning collaborator: %w", err)
	}

	collaboratorStatus, imputedDays, totalDays, err := recomputeCollaborator(tx, collaboratorID, now)
	if err != nil {
		return nil, err
	}

	versionStatus, err := recomputeVersion(tx, versionID, nil)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit toggle: %w", err)
	}

	daily, err := s.store.GetDaily(dailyID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{
		Daily:              daily,
		CollaboratorStatus: collaboratorStatus,
		VersionStatus:      versionStatus,
		Stats:              model.NewStats(imputedDays, totalDays),
	}, nil
}

// BulkMark is the coarse path used from the project detail view: it marks
// whole collaborators imputed without touching their daily rows, then
// recomputes only the version status from the collaborator set.
func (s *Service) BulkMark(versionID string, collaboratorIDs []string, actorID string) (model.ImputationStatus, error) {
	now := time.Now().UTC()

	tx, err := s.store.BeginTx()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	if err := tx.QueryRow(`SELECT id FROM instruction_versions WHERE id = ?`, versionID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrVersionNotFound
		}
		return "", fmt.Errorf("failed to look up version: %w", err)
	}

	for _, collabID := range collaboratorIDs {
		if _, err := tx.Exec(`
			UPDATE collaborator_lines
			SET is_imputed = 1, imputed_at = ?
			WHERE id = ? AND version_id = ?
		`, now.Format(time.RFC3339), collabID, versionID); err != nil {
			return "", fmt.Errorf("failed to mark collaborator %s: %w", collabID, err)
		}
	}

	status, err := recomputeVersion(tx, versionID, &actorID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit bulk mark: %w", err)
	}
	return status, nil
}

// recomputeCollaborator re-derives a collaborator's cached status from its
// daily rows. The transient PARTIEL state is returned to the caller but the
// line itself only stores the coarse imputed/not-imputed boolean.
func recomputeCollaborator(tx *sql.Tx, collaboratorID string, now time.Time) (model.ImputationStatus, int, int, error) {
	var imputed, total int
	if err := tx.QueryRow(`
		SELECT COALESCE(SUM(is_imputed), 0), COUNT(*)
		FROM daily_imputations
		WHERE collaborator_id = ?
	`, collaboratorID).Scan(&imputed, &total); err != nil {
		return "", 0, 0, fmt.Errorf("failed to count daily rows: %w", err)
	}

	status := model.DeriveStatus(imputed, total)

	var imputedAt interface{}
	if status == model.StatusImpute {
		imputedAt = now.Format(time.RFC3339)
	}
	if _, err := tx.Exec(`
		UPDATE collaborator_lines SET is_imputed = ?, imputed_at = ? WHERE id = ?
	`, status == model.StatusImpute, imputedAt, collaboratorID); err != nil {
		return "", 0, 0, fmt.Errorf("failed to update collaborator status: %w", err)
	}

	return status, imputed, total, nil
}

// recomputeVersion re-derives a version's status from its collaborators'
// imputed booleans. imputedBy, when set, records the bulk-mark actor.
func recomputeVersion(tx *sql.Tx, versionID string, imputedBy *string) (model.ImputationStatus, error) {
	var imputed, total int
	if err := tx.QueryRow(`
		SELECT COALESCE(SUM(is_imputed), 0), COUNT(*)
		FROM collaborator_lines
		WHERE version_id = ?
	`, versionID).Scan(&imputed, &total); err != nil {
		return "", fmt.Errorf("failed to count collaborators: %w", err)
	}

	status := model.DeriveStatus(imputed, total)

	if imputedBy != nil {
		if _, err := tx.Exec(`
			UPDATE instruction_versions SET status = ?, imputed_by = ? WHERE id = ?
		`, string(status), *imputedBy, versionID); err != nil {
			return "", fmt.Errorf("failed to update version status: %w", err)
		}
	} else {
		if _, err := tx.Exec(`
			UPDATE instruction_versions SET status = ? WHERE id = ?
		`, string(status), versionID); err != nil {
			return "", fmt.Errorf("failed to update version status: %w", err)
		}
	}

	return status, nil
}
