package parser

import (
	"fmt"

	"fichetrack/internal/model"
)

// parsePlanning reads one row per vocabulary phase at a fixed offset.
// It always emits exactly seven records: missing dates stay nil and the
// row label falls back to the vocabulary name, so no failure is possible.
func parsePlanning(r *CellReader) []model.PlanningPhase {
	planning := make([]model.PlanningPhase, 0, len(model.PlanningPhaseNames))

	for i, name := range model.PlanningPhaseNames {
		row := planningFirstRow + i

		phase := r.String(fmt.Sprintf("%s%d", planningPhaseCol, row))
		if phase == "" {
			phase = name
		}

		planning = append(planning, model.PlanningPhase{
			Phase:     phase,
			StartDate: r.Date(fmt.Sprintf("%s%d", planningStartCol, row)),
			EndDate:   r.Date(fmt.Sprintf("%s%d", planningEndCol, row)),
		})
	}

	return planning
}
