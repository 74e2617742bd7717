package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fichetrack/internal/exporter"
	"fichetrack/internal/importer"
	"fichetrack/internal/imputation"
	"fichetrack/internal/store"
)

// Handler is the V1 API handler.
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	imputations *imputation.Service
	exporter    *exporter.Exporter
	log         *zap.SugaredLogger
}

// NewHandler creates the V1 API handler.
func NewHandler(st *store.Store, log *zap.SugaredLogger) *Handler {
	return &Handler{
		store:       st,
		coordinator: importer.NewCoordinator(st, log),
		imputations: imputation.NewService(st),
		exporter:    exporter.NewExporter(st),
		log:         log,
	}
}

// RegisterRoutes registers the V1 API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// service status
	router.GET("/status", h.GetStatus)

	// ingestion
	router.POST("/upload", h.Upload)

	// projects
	router.GET("/projects", h.ListProjects)
	router.GET("/projects/:id", h.GetProject)
	router.DELETE("/projects/:id", h.DeleteProject)

	// versions
	router.PATCH("/versions/:id/imputation", h.BulkImputation)
	router.GET("/versions/:id/export", h.ExportVersion)

	// collaborators
	router.GET("/collaborators", h.ListCollaborators)

	// daily imputations
	router.GET("/daily-imputations", h.ListDailyImputations)
	router.PATCH("/daily-imputations/:id", h.ToggleDailyImputation)

	// analytics
	router.GET("/analytics/cumulation", h.Cumulation)
}

// actor returns the authenticated actor id placed by the identity
// middleware. Routes never run without it.
func actor(c *gin.Context) string {
	return c.GetString("userID")
}
