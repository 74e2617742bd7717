package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the two write paths. Outcome labels on ingestions match the
// ingestion error taxonomy.
var (
	Ingestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fichetrack",
		Name:      "ingestions_total",
		Help:      "Workbook ingestion attempts by outcome.",
	}, []string{"outcome"})

	DailyToggles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fichetrack",
		Name:      "daily_toggles_total",
		Help:      "Daily imputation completion toggles.",
	})

	BulkMarks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fichetrack",
		Name:      "bulk_marks_total",
		Help:      "Bulk collaborator imputation operations.",
	})
)

const (
	OutcomeOK              = "ok"
	OutcomeDuplicate       = "duplicate"
	OutcomeNoCollaborators = "no_valid_collaborators"
	OutcomeMalformed       = "malformed_workbook"
	OutcomeError           = "error"
)
