package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"fichetrack/internal/model"
	"fichetrack/internal/store"
)

// Exporter writes a version summary back out as a workbook: the charge
// table and the planning table, one sheet each.
type Exporter struct {
	store *store.Store
}

// NewExporter creates an exporter.
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

var chargeHeaders = []string{
	"Collaborateur", "Instruction", "Cadrage", "Conception",
	"Administration", "Technique", "Développement", "Test Unitaire",
	"Test Intégration", "Assistance Recette", "Déploiement",
	"Assistance Post Déploiement", "Total", "Imputé",
}

// ExportVersion builds the workbook for one version. The caller owns the
// returned file and must Close it.
func (e *Exporter) ExportVersion(version *model.InstructionVersion) (*excelize.File, error) {
	collaborators, err := e.store.ListVersionCollaborators(version.ID)
	if err != nil {
		return nil, err
	}
	plannings, err := e.store.ListPlannings(version.ID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	chargesSheet := "Charges"
	if err := f.SetSheetName("Sheet1", chargesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(chargesSheet, "A1", &chargeHeaders); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, c := range collaborators {
		imputed := "Non"
		if c.IsImputed {
			imputed = "Oui"
		}
		row := []interface{}{
			c.Name, c.Instruction, c.Cadrage, c.Conception,
			c.Administration, c.Technique, c.Developpement, c.TestUnitaire,
			c.TestIntegration, c.AssistanceRecette, c.Deploiement,
			c.AssistancePost, c.Total, imputed,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(chargesSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write charge row: %w", err)
		}
	}

	planningSheet := "Planning"
	if _, err := f.NewSheet(planningSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create planning sheet: %w", err)
	}

	planningHeaders := []string{"Phase", "Date début", "Date fin", "Note"}
	if err := f.SetSheetRow(planningSheet, "A1", &planningHeaders); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write planning headers: %w", err)
	}

	for i, p := range plannings {
		row := []interface{}{p.Phase, formatDate(p.StartDate), formatDate(p.EndDate), deref(p.Note)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(planningSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write planning row: %w", err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
