package store

import (
	"database/sql"
	"fmt"
)

// ChargeAggregate is one row of the cumulation analytics: charges summed
// per project or per collaborator name across all of a user's lines.
type ChargeAggregate struct {
	ProjectID string             `json:"projectId,omitempty"`
	Filiale   string             `json:"filiale,omitempty"`
	Reference string             `json:"reference,omitempty"`
	Titre     *string            `json:"title,omitempty"`
	Name      string             `json:"name,omitempty"`
	Charges   map[string]float64 `json:"charges"`
}

const chargeSums = `
	SUM(c.instruction), SUM(c.cadrage), SUM(c.conception), SUM(c.administration),
	SUM(c.technique), SUM(c.developpement), SUM(c.test_unitaire),
	SUM(c.test_integration), SUM(c.assistance_recette), SUM(c.deploiement),
	SUM(c.assistance_post), SUM(c.total)
`

// CumulationByProject sums a user's collaborator charges per project,
// optionally narrowed to one project.
func (s *Store) CumulationByProject(userID string, projectID *string) ([]*ChargeAggregate, error) {
	query := `
		SELECT p.id, p.filiale, p.reference, p.titre, ` + chargeSums + `
		FROM collaborator_lines c
		JOIN instruction_versions v ON v.id = c.version_id
		JOIN projects p ON p.id = v.project_id
		WHERE c.user_id = ?
	`
	args := []interface{}{userID}
	if projectID != nil {
		query += " AND p.id = ?"
		args = append(args, *projectID)
	}
	query += " GROUP BY p.id ORDER BY p.filiale, p.reference"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cumulation by project: %w", err)
	}
	defer rows.Close()

	var aggregates []*ChargeAggregate
	for rows.Next() {
		agg := &ChargeAggregate{Charges: map[string]float64{}}
		var titre sql.NullString
		dest := []interface{}{&agg.ProjectID, &agg.Filiale, &agg.Reference, &titre}
		dest = append(dest, chargeDest(agg.Charges)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		agg.Titre = SQLToStr(titre)
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}

// CumulationByCollaborator sums a user's charges per collaborator name,
// optionally narrowed to one project.
func (s *Store) CumulationByCollaborator(userID string, projectID *string) ([]*ChargeAggregate, error) {
	query := `
		SELECT c.name, ` + chargeSums + `
		FROM collaborator_lines c
		JOIN instruction_versions v ON v.id = c.version_id
		WHERE c.user_id = ?
	`
	args := []interface{}{userID}
	if projectID != nil {
		query += " AND v.project_id = ?"
		args = append(args, *projectID)
	}
	query += " GROUP BY c.name ORDER BY c.name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cumulation by collaborator: %w", err)
	}
	defer rows.Close()

	var aggregates []*ChargeAggregate
	for rows.Next() {
		agg := &ChargeAggregate{Charges: map[string]float64{}}
		dest := []interface{}{&agg.Name}
		dest = append(dest, chargeDest(agg.Charges)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}

// chargeDest builds scan destinations that land directly in the charges map.
func chargeDest(charges map[string]float64) []interface{} {
	keys := []string{
		"instruction", "cadrage", "conception", "administration", "technique",
		"developpement", "testUnitaire", "testIntegration", "assistanceRecette",
		"deploiement", "assistancePost", "total",
	}
	dest := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		dest = append(dest, &mapFloat{m: charges, key: key})
	}
	return dest
}

// mapFloat scans a float column into a map entry.
type mapFloat struct {
	m   map[string]float64
	key string
}

func (f *mapFloat) Scan(value interface{}) error {
	switch v := value.(type) {
	case float64:
		f.m[f.key] = v
	case int64:
		f.m[f.key] = float64(v)
	case nil:
		f.m[f.key] = 0
	default:
		return fmt.Errorf("unexpected type %T for %s", value, f.key)
	}
	return nil
}
