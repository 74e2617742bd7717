package imputation

import (
	"testing"
	"time"

	"fichetrack/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func planningWith(phase string, start *time.Time) []model.PlanningPhase {
	var planning []model.PlanningPhase
	for _, name := range model.PlanningPhaseNames {
		p := model.PlanningPhase{Phase: name}
		if name == phase {
			p.StartDate = start
		}
		planning = append(planning, p)
	}
	return planning
}

func TestGenerateDaily_MondayStart(t *testing.T) {
	t.Parallel()

	// 2024-01-08 is a Monday
	collab := model.CollaboratorCharge{Name: "Jean Dupont", Instruction: 3}
	rows := GenerateDaily(collab, planningWith("Instruction", date(2024, time.January, 8)))

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []string{"2024-01-08", "2024-01-09", "2024-01-10"}
	for i, row := range rows {
		if row.DayNumber != i+1 {
			t.Errorf("row %d: dayNumber %d", i, row.DayNumber)
		}
		if row.DatePrevu == nil || row.DatePrevu.Format("2006-01-02") != want[i] {
			t.Errorf("row %d: date %v, want %s", i, row.DatePrevu, want[i])
		}
	}
}

func TestGenerateDaily_FridayStartSkipsWeekend(t *testing.T) {
	t.Parallel()

	// 2024-01-12 is a Friday: day 2 and 3 land on Monday and Tuesday
	collab := model.CollaboratorCharge{Name: "Jean Dupont", Cadrage: 3}
	rows := GenerateDaily(collab, planningWith("Cadrage", date(2024, time.January, 12)))

	want := []string{"2024-01-12", "2024-01-15", "2024-01-16"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, row := range rows {
		if row.DatePrevu.Format("2006-01-02") != want[i] {
			t.Errorf("day %d: got %s want %s", i+1, row.DatePrevu.Format("2006-01-02"), want[i])
		}
	}
}

func TestGenerateDaily_FractionalChargeRoundsUp(t *testing.T) {
	t.Parallel()

	collab := model.CollaboratorCharge{Name: "Jean Dupont", Developpement: 2.5}
	rows := GenerateDaily(collab, planningWith("Réalisation", date(2024, time.January, 8)))

	if len(rows) != 3 {
		t.Fatalf("ceil(2.5) should give 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Phase != "developpement" {
			t.Errorf("phase: got %q", row.Phase)
		}
	}
}

func TestGenerateDaily_ZeroChargeNoRows(t *testing.T) {
	t.Parallel()

	collab := model.CollaboratorCharge{Name: "Jean Dupont"}
	if rows := GenerateDaily(collab, planningWith("Instruction", date(2024, time.January, 8))); len(rows) != 0 {
		t.Fatalf("zero charges must produce zero rows, got %d", len(rows))
	}
}

func TestGenerateDaily_NoStartDateNilDates(t *testing.T) {
	t.Parallel()

	collab := model.CollaboratorCharge{Name: "Jean Dupont", TestUnitaire: 2}
	rows := GenerateDaily(collab, planningWith("Recette", nil))

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.DatePrevu != nil {
			t.Errorf("date should be nil without a planning start, got %v", row.DatePrevu)
		}
	}
}

func TestGenerateDaily_SharedPlanningPhase(t *testing.T) {
	t.Parallel()

	// administration, technique and developpement all schedule from
	// Réalisation's start date
	collab := model.CollaboratorCharge{Name: "Jean Dupont", Administration: 1, Technique: 1, Developpement: 1}
	rows := GenerateDaily(collab, planningWith("Réalisation", date(2024, time.January, 8)))

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.DayNumber != 1 {
			t.Errorf("%s: dayNumber %d, want 1 (numbering is per phase)", row.Phase, row.DayNumber)
		}
		if row.DatePrevu.Format("2006-01-02") != "2024-01-08" {
			t.Errorf("%s: date %v", row.Phase, row.DatePrevu)
		}
	}
}

func TestGenerateDaily_PerPhaseRowCounts(t *testing.T) {
	t.Parallel()

	collab := model.CollaboratorCharge{
		Name:        "Jean Dupont",
		Instruction: 1.2,
		Cadrage:     2,
		Deploiement: 0.5,
	}
	rows := GenerateDaily(collab, planningWith("Instruction", date(2024, time.January, 8)))

	counts := map[string]int{}
	for _, row := range rows {
		counts[row.Phase]++
	}
	if counts["instruction"] != 2 || counts["cadrage"] != 2 || counts["deploiement"] != 1 {
		t.Fatalf("unexpected per-phase counts: %v", counts)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows total, got %d", len(rows))
	}
}
