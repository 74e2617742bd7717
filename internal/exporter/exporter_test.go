package exporter

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"fichetrack/internal/model"
	"fichetrack/internal/store"
)

func seedExportVersion(t *testing.T) (*store.Store, *model.InstructionVersion) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "fichetrack.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	version := &model.InstructionVersion{
		ID:            uuid.New().String(),
		ProjectID:     uuid.New().String(),
		VersionNumber: 1,
		FileHash:      uuid.New().String(),
		FileName:      "fiche.xlsx",
		Status:        model.StatusNonImpute,
		UploadedBy:    "user-1",
	}

	batch := &store.IngestionBatch{
		Project: &model.Project{
			ID:        version.ProjectID,
			Filiale:   "ACME-IT",
			Reference: "REF-1",
			UserID:    "user-1",
		},
		ProjectIsNew: true,
		Version:      version,
		Plannings: []*model.PlanningPhase{
			{ID: uuid.New().String(), VersionID: version.ID, Phase: "Instruction"},
			{ID: uuid.New().String(), VersionID: version.ID, Phase: "Cadrage"},
		},
		Collaborators: []*store.CollaboratorBatch{
			{Line: &model.CollaboratorLine{
				CollaboratorCharge: model.CollaboratorCharge{Name: "Jean Dupont", Instruction: 2, Total: 2},
				ID:                 uuid.New().String(),
				VersionID:          version.ID,
				UserID:             "user-1",
			}},
		},
	}

	if err := st.SaveIngestion(batch); err != nil {
		t.Fatalf("seed ingestion: %v", err)
	}
	return st, version
}

func TestExportVersion(t *testing.T) {
	st, version := seedExportVersion(t)

	f, err := NewExporter(st).ExportVersion(version)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex("Charges"); err != nil || idx < 0 {
		t.Fatalf("missing Charges sheet: idx=%d err=%v", idx, err)
	}
	if idx, err := f.GetSheetIndex("Planning"); err != nil || idx < 0 {
		t.Fatalf("missing Planning sheet: idx=%d err=%v", idx, err)
	}

	name, err := f.GetCellValue("Charges", "A2")
	if err != nil {
		t.Fatalf("read charge row: %v", err)
	}
	if name != "Jean Dupont" {
		t.Errorf("charge row name: got %q", name)
	}

	imputed, err := f.GetCellValue("Charges", "N2")
	if err != nil {
		t.Fatalf("read imputed cell: %v", err)
	}
	if imputed != "Non" {
		t.Errorf("imputed flag: got %q, want Non", imputed)
	}

	phase, err := f.GetCellValue("Planning", "A2")
	if err != nil {
		t.Fatalf("read planning row: %v", err)
	}
	if phase != "Instruction" {
		t.Errorf("planning phase: got %q", phase)
	}
}

func TestExportVersion_NoCollaborators(t *testing.T) {
	st, _ := seedExportVersion(t)

	empty := &model.InstructionVersion{ID: uuid.New().String()}
	f, err := NewExporter(st).ExportVersion(empty)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Charges", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Collaborateur" {
		t.Errorf("header: got %q", header)
	}
}
