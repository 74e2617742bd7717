package imputation

import (
	"math"
	"time"

	"fichetrack/internal/model"
)

// GenerateDaily expands a collaborator's phase charges into one row per
// whole day of work. A charge of 2.5 becomes 3 rows; a charge of 0 becomes
// none. Dates walk forward from the mapped planning phase's start date,
// skipping weekends; without a start date every row's date stays nil.
//
// The schedule is generated once at ingestion and never regenerated: it is
// the single source of truth for "how much work, scheduled when".
func GenerateDaily(collaborator model.CollaboratorCharge, planning []model.PlanningPhase) []model.DailyImputation {
	var rows []model.DailyImputation

	for _, phase := range model.ChargePhases {
		charge := collaborator.Charge(phase)
		if charge <= 0 {
			continue
		}

		days := int(math.Ceil(charge))
		start := planningStart(planning, model.ChargeToPlanning[phase])

		for day := 1; day <= days; day++ {
			rows = append(rows, model.DailyImputation{
				Phase:     phase,
				DayNumber: day,
				DatePrevu: businessDay(start, day-1),
			})
		}
	}

	return rows
}

// planningStart finds the start date of the named planning phase.
func planningStart(planning []model.PlanningPhase, name string) *time.Time {
	for _, p := range planning {
		if p.Phase == name {
			return p.StartDate
		}
	}
	return nil
}

// businessDay returns start advanced by steps business days. Day 1 of a
// phase is the start date itself (steps=0) even when it falls on a weekend;
// each further step advances the calendar one day at a time and only counts
// days that are not Saturday or Sunday.
func businessDay(start *time.Time, steps int) *time.Time {
	if start == nil {
		return nil
	}

	current := *start
	for remaining := steps; remaining > 0; {
		current = current.AddDate(0, 0, 1)
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return &current
}
