package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fichetrack/internal/imputation"
	"fichetrack/internal/metrics"
	"fichetrack/internal/model"
)

// ListDailyImputations returns the daily rows for one collaborator or one
// whole version, with completion stats.
// GET /api/daily-imputations?collaboratorId=... | ?versionId=...
func (h *Handler) ListDailyImputations(c *gin.Context) {
	collaboratorID := c.Query("collaboratorId")
	versionID := c.Query("versionId")

	if collaboratorID == "" && versionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collaboratorId or versionId required"})
		return
	}

	var dailies []*model.DailyImputation
	var err error
	if collaboratorID != "" {
		dailies, err = h.store.ListDailyByCollaborator(collaboratorID, actor(c))
	} else {
		dailies, err = h.store.ListDailyByVersion(versionID, actor(c))
	}
	if err != nil {
		h.log.Errorw("list daily imputations failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch daily imputations"})
		return
	}

	imputed := 0
	for _, d := range dailies {
		if d.IsImputed {
			imputed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"dailyImputations": dailies,
		"stats":            model.NewStats(imputed, len(dailies)),
	})
}

// ToggleRequest is the daily-toggle payload.
type ToggleRequest struct {
	IsImputed bool    `json:"isImputed"`
	Comment   *string `json:"comment"`
}

// ToggleDailyImputation flips one daily row and returns the recomputed
// collaborator and version statuses.
// PATCH /api/daily-imputations/:id
func (h *Handler) ToggleDailyImputation(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.imputations.Toggle(c.Param("id"), req.IsImputed, actor(c), req.Comment)
	if err != nil {
		if errors.Is(err, imputation.ErrDailyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "daily imputation not found"})
			return
		}
		h.log.Errorw("toggle daily imputation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update daily imputation"})
		return
	}

	metrics.DailyToggles.Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"dailyImputation":    result.Daily,
		"collaboratorStatus": result.CollaboratorStatus,
		"versionStatus":      result.VersionStatus,
		"stats":              result.Stats,
	})
}

// BulkImputationRequest is the coarse bulk-mark payload.
type BulkImputationRequest struct {
	CollaboratorIDs []string `json:"collaboratorIds"`
}

// BulkImputation marks collaborators imputed without touching their daily
// rows, then recomputes the version status.
// PATCH /api/versions/:id/imputation
func (h *Handler) BulkImputation(c *gin.Context) {
	var req BulkImputationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	versionID := c.Param("id")
	status, err := h.imputations.BulkMark(versionID, req.CollaboratorIDs, actor(c))
	if err != nil {
		if errors.Is(err, imputation.ErrVersionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
			return
		}
		h.log.Errorw("bulk imputation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update imputation status"})
		return
	}

	version, err := h.store.GetVersion(versionID)
	if err != nil || version == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload version"})
		return
	}
	version.Collaborators, _ = h.store.ListVersionCollaborators(versionID)

	metrics.BulkMarks.Inc()
	c.JSON(http.StatusOK, gin.H{
		"version": version,
		"message": "version status updated to " + string(status),
	})
}
