package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportVersion streams a version summary workbook.
// GET /api/versions/:id/export
func (h *Handler) ExportVersion(c *gin.Context) {
	version, err := h.store.GetVersion(c.Param("id"))
	if err != nil {
		h.log.Errorw("get version failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch version"})
		return
	}
	if version == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
		return
	}
	if version.UploadedBy != actor(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "this version does not belong to you"})
		return
	}

	file, err := h.exporter.ExportVersion(version)
	if err != nil {
		h.log.Errorw("export version failed", "version", version.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export version"})
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("fiche-%s-v%d.xlsx", version.ProjectID, version.VersionNumber)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		h.log.Errorw("write export failed", "version", version.ID, "error", err)
	}
}
