package imputation

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"fichetrack/internal/model"
	"fichetrack/internal/store"
)

// seedVersion persists a version with the given collaborators, each with
// dailyCount daily rows, and returns the store plus entity ids.
func seedVersion(t *testing.T, dailyCounts map[string]int) (*store.Store, string, map[string][]string) {
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
		FileName:      "test.xlsx",
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
	}

	dailyIDs := map[string][]string{}
	for name, count := range dailyCounts {
		line := &model.CollaboratorLine{
			CollaboratorCharge: model.CollaboratorCharge{Name: name, Instruction: float64(count), Total: float64(count)},
			ID:                 uuid.New().String(),
			VersionID:          version.ID,
			UserID:             "user-1",
		}
		cb := &store.CollaboratorBatch{Line: line}
		for day := 1; day <= count; day++ {
			d := &model.DailyImputation{
				ID:             uuid.New().String(),
				CollaboratorID: line.ID,
				UserID:         "user-1",
				Phase:          "instruction",
				DayNumber:      day,
			}
			cb.Dailies = append(cb.Dailies, d)
			dailyIDs[name] = append(dailyIDs[name], d.ID)
		}
		batch.Collaborators = append(batch.Collaborators, cb)
	}

	if err := st.SaveIngestion(batch); err != nil {
		t.Fatalf("seed ingestion: %v", err)
	}
	return st, version.ID, dailyIDs
}

func versionStatus(t *testing.T, st *store.Store, versionID string) model.ImputationStatus {
	t.Helper()
	version, err := st.GetVersion(versionID)
	if err != nil || version == nil {
		t.Fatalf("get version: %v", err)
	}
	return version.Status
}

func TestToggle_Cascade(t *testing.T) {
	st, versionID, dailyIDs := seedVersion(t, map[string]int{
		"Jean Dupont":   2,
		"Marie Curie":   1,
		"Pierre Martin": 1,
	})
	svc := NewService(st)

	// first of Dupont's two days: collaborator PARTIEL, version untouched
	result, err := svc.Toggle(dailyIDs["Jean Dupont"][0], true, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.CollaboratorStatus != model.StatusPartiel {
		t.Errorf("collaborator status: got %s, want PARTIEL", result.CollaboratorStatus)
	}
	if result.VersionStatus != model.StatusNonImpute {
		t.Errorf("version status: got %s, want NON_IMPUTE", result.VersionStatus)
	}
	if result.Stats.Total != 2 || result.Stats.Imputed != 1 || result.Stats.Remaining != 1 {
		t.Errorf("stats: %+v", result.Stats)
	}
	if result.Daily.ImputedAt == nil || result.Daily.ImputedBy == nil || *result.Daily.ImputedBy != "user-1" {
		t.Errorf("daily stamp missing: %+v", result.Daily)
	}

	// Dupont complete: version becomes PARTIEL
	result, err = svc.Toggle(dailyIDs["Jean Dupont"][1], true, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.CollaboratorStatus != model.StatusImpute {
		t.Errorf("collaborator status: got %s, want IMPUTE", result.CollaboratorStatus)
	}
	if result.VersionStatus != model.StatusPartiel {
		t.Errorf("version status: got %s, want PARTIEL", result.VersionStatus)
	}

	// all three collaborators complete: version IMPUTE
	if _, err := svc.Toggle(dailyIDs["Marie Curie"][0], true, "user-1", nil); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	result, err = svc.Toggle(dailyIDs["Pierre Martin"][0], true, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.VersionStatus != model.StatusImpute {
		t.Errorf("version status: got %s, want IMPUTE", result.VersionStatus)
	}
	if got := versionStatus(t, st, versionID); got != model.StatusImpute {
		t.Errorf("persisted version status: got %s, want IMPUTE", got)
	}

	// one row back off: version immediately PARTIEL again
	result, err = svc.Toggle(dailyIDs["Jean Dupont"][0], false, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.CollaboratorStatus != model.StatusPartiel {
		t.Errorf("collaborator status: got %s, want PARTIEL", result.CollaboratorStatus)
	}
	if result.VersionStatus != model.StatusPartiel {
		t.Errorf("version status: got %s, want PARTIEL", result.VersionStatus)
	}
	if result.Daily.ImputedAt != nil || result.Daily.ImputedBy != nil {
		t.Errorf("stamp should be cleared when toggling off: %+v", result.Daily)
	}
}

func TestToggle_ConcurrentConvergence(t *testing.T) {
	st, versionID, dailyIDs := seedVersion(t, map[string]int{
		"Jean Dupont": 3,
		"Marie Curie": 2,
	})
	svc := NewService(st)

	// every daily row toggled on from its own goroutine; the recompute
	// re-reads full counts per transaction, so any completion order must
	// land on the same final state as toggling sequentially
	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for _, ids := range dailyIDs {
		for _, id := range ids {
			wg.Add(1)
			go func(dailyID string) {
				defer wg.Done()
				if _, err := svc.Toggle(dailyID, true, "user-1", nil); err != nil {
					errs <- err
				}
			}(id)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent toggle: %v", err)
	}

	if got := versionStatus(t, st, versionID); got != model.StatusImpute {
		t.Errorf("version status after concurrent toggles: got %s, want IMPUTE", got)
	}

	for name, ids := range dailyIDs {
		collab, err := st.GetCollaborator(collaboratorOf(t, st, ids[0]))
		if err != nil || collab == nil {
			t.Fatalf("get collaborator for %s: %v", name, err)
		}
		if !collab.IsImputed {
			t.Errorf("collaborator %s not marked imputed", name)
		}
	}
}

// collaboratorOf resolves a daily row's owning collaborator id.
func collaboratorOf(t *testing.T, st *store.Store, dailyID string) string {
	t.Helper()
	daily, err := st.GetDaily(dailyID)
	if err != nil || daily == nil {
		t.Fatalf("get daily: %v", err)
	}
	return daily.CollaboratorID
}

func TestToggle_Idempotent(t *testing.T) {
	st, _, dailyIDs := seedVersion(t, map[string]int{"Jean Dupont": 2})
	svc := NewService(st)

	first, err := svc.Toggle(dailyIDs["Jean Dupont"][0], true, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	second, err := svc.Toggle(dailyIDs["Jean Dupont"][0], true, "user-1", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if first.CollaboratorStatus != second.CollaboratorStatus ||
		first.VersionStatus != second.VersionStatus ||
		first.Stats != second.Stats {
		t.Fatalf("recompute not idempotent: %+v vs %+v", first, second)
	}
}

func TestToggle_NotFound(t *testing.T) {
	st, _, _ := seedVersion(t, map[string]int{"Jean Dupont": 1})
	svc := NewService(st)

	if _, err := svc.Toggle("missing-id", true, "user-1", nil); err != ErrDailyNotFound {
		t.Fatalf("expected ErrDailyNotFound, got %v", err)
	}
}

func TestBulkMark_CoarsePath(t *testing.T) {
	st, versionID, dailyIDs := seedVersion(t, map[string]int{
		"Jean Dupont": 2,
		"Marie Curie": 1,
	})
	svc := NewService(st)

	// resolve collaborator ids from the version
	lines, err := st.ListVersionCollaborators(versionID)
	if err != nil {
		t.Fatalf("list collaborators: %v", err)
	}
	var ids []string
	for _, line := range lines {
		ids = append(ids, line.ID)
	}

	status, err := svc.BulkMark(versionID, ids, "user-1")
	if err != nil {
		t.Fatalf("bulk mark: %v", err)
	}
	if status != model.StatusImpute {
		t.Errorf("status: got %s, want IMPUTE", status)
	}
	if got := versionStatus(t, st, versionID); got != model.StatusImpute {
		t.Errorf("persisted status: got %s", got)
	}

	// the coarse path must not touch daily rows
	for _, id := range dailyIDs["Jean Dupont"] {
		daily, err := st.GetDaily(id)
		if err != nil || daily == nil {
			t.Fatalf("get daily: %v", err)
		}
		if daily.IsImputed {
			t.Errorf("bulk mark wrote through to daily row %s", id)
		}
	}
}

func TestBulkMark_Partial(t *testing.T) {
	st, versionID, _ := seedVersion(t, map[string]int{
		"Jean Dupont": 1,
		"Marie Curie": 1,
	})
	svc := NewService(st)

	lines, err := st.ListVersionCollaborators(versionID)
	if err != nil {
		t.Fatalf("list collaborators: %v", err)
	}

	status, err := svc.BulkMark(versionID, []string{lines[0].ID}, "user-1")
	if err != nil {
		t.Fatalf("bulk mark: %v", err)
	}
	if status != model.StatusPartiel {
		t.Errorf("status: got %s, want PARTIEL", status)
	}
}

func TestBulkMark_VersionNotFound(t *testing.T) {
	st, _, _ := seedVersion(t, map[string]int{"Jean Dupont": 1})
	svc := NewService(st)

	if _, err := svc.BulkMark("missing-version", nil, "user-1"); err != ErrVersionNotFound {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}
