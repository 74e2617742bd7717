package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fichetrack/internal/importer"
	"fichetrack/internal/metrics"
	"fichetrack/internal/parser"
)

// Upload ingests an instruction-sheet workbook.
// POST /api/upload (multipart field "file")
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	result, err := h.coordinator.Ingest(data, actor(c))
	if err != nil {
		h.uploadError(c, err)
		return
	}

	metrics.Ingestions.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":              "file uploaded successfully",
		"projectId":            result.ProjectID,
		"versionId":            result.VersionID,
		"versionNumber":        result.VersionNumber,
		"collaboratorCount":    result.CollaboratorCount,
		"dailyRowCount":        result.DailyRowCount,
		"invalidCollaborators": result.InvalidCollaborators,
	})
}

// uploadError maps the ingestion error taxonomy onto HTTP responses.
func (h *Handler) uploadError(c *gin.Context, err error) {
	var duplicate *importer.DuplicateUploadError
	var noValid *importer.NoValidCollaboratorsError

	switch {
	case errors.As(err, &duplicate):
		metrics.Ingestions.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		c.JSON(http.StatusConflict, gin.H{
			"error":     "this file has already been uploaded",
			"details":   "This file has already been uploaded. Please check your projects or upload a modified version.",
			"versionId": duplicate.VersionID,
		})
	case errors.As(err, &noValid):
		metrics.Ingestions.WithLabelValues(metrics.OutcomeNoCollaborators).Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                "no valid collaborators found in Excel file",
			"details":              `File must contain at least one collaborator with format like "Collaborateur (I.KADA)" or "Jean Dupont"`,
			"invalidCollaborators": noValid.Invalid,
		})
	case errors.Is(err, parser.ErrSheetNotFound):
		metrics.Ingestions.WithLabelValues(metrics.OutcomeMalformed).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		metrics.Ingestions.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.Errorw("upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
	}
}
