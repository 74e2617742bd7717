package parser

import (
	"fmt"
	"regexp"
	"strings"

	"fichetrack/internal/model"
)

// Free-text name entry in the fiche is unreliable. The validator favors
// precision over recall: a placeholder like "Collaborateur 2" keyed into
// imputation tracking would corrupt it, so ambiguous names are rejected.
var (
	// "Collaborateur (I.KADA)", "Collaborateur (John Doe)"
	parentheticalName = regexp.MustCompile(`\([A-Za-zÀ-ÿ\s.]+\)`)
	// a real word: letters only, hyphen/apostrophe/period allowed
	wordToken = regexp.MustCompile(`^[A-Za-zÀ-ÿ\-'.]+$`)
)

// ValidName reports whether a collaborator name is plausible: either it
// carries a parenthesized identifier, or it splits into at least two
// letter-only tokens ("Jean Dupont").
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if parentheticalName.MatchString(name) {
		return true
	}

	words := 0
	for _, token := range strings.Fields(name) {
		if wordToken.MatchString(token) {
			words++
		}
	}
	return words >= 2
}

// parseCollaborators scans the bounded collaborator block, returning the
// accepted rows and a diagnostic entry for every rejected one. Blank
// template rows (no name, no charges) are skipped silently.
func parseCollaborators(r *CellReader) (collaborators []model.CollaboratorCharge, invalid []string) {
	for row := collabFirstRow; row <= collabLastRow; row++ {
		name := r.String(fmt.Sprintf("%s%d", collabNameCol, row))

		// The sentinel row and everything under it are summary lines.
		if name == sentinelRowLabel {
			break
		}

		charge := model.CollaboratorCharge{Name: name}
		for _, col := range chargeColumns {
			setCharge(&charge, col.Field, r.Float(fmt.Sprintf("%s%d", col.Column, row)))
		}

		// Declared total wins when present; otherwise reconcile by summing.
		charge.Total = r.Float(fmt.Sprintf("%s%d", collabTotalCol, row))
		if charge.Total == 0 {
			charge.Total = charge.PhaseSum()
		}

		if name == "" {
			if charge.Total == 0 {
				continue // blank template row
			}
			invalid = append(invalid, fmt.Sprintf("row %d: charges without a collaborator name", row))
			continue
		}

		if !ValidName(name) {
			invalid = append(invalid, fmt.Sprintf(`%s: must have format like "Collaborateur (I.KADA)" or "Jean Dupont"`, name))
			continue
		}

		collaborators = append(collaborators, charge)
	}
	return collaborators, invalid
}

func setCharge(c *model.CollaboratorCharge, field string, value float64) {
	switch field {
	case "instruction":
		c.Instruction = value
	case "cadrage":
		c.Cadrage = value
	case "conception":
		c.Conception = value
	case "administration":
		c.Administration = value
	case "technique":
		c.Technique = value
	case "developpement":
		c.Developpement = value
	case "testUnitaire":
		c.TestUnitaire = value
	case "testIntegration":
		c.TestIntegration = value
	case "assistanceRecette":
		c.AssistanceRecette = value
	case "deploiement":
		c.Deploiement = value
	case "assistancePost":
		c.AssistancePost = value
	}
}
