package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cumulation returns charge totals accumulated per project and per
// collaborator name across the actor's lines.
// GET /api/analytics/cumulation?projectId=
func (h *Handler) Cumulation(c *gin.Context) {
	var projectID *string
	if v := c.Query("projectId"); v != "" {
		projectID = &v
	}

	byProject, err := h.store.CumulationByProject(actor(c), projectID)
	if err != nil {
		h.log.Errorw("cumulation by project failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute cumulation"})
		return
	}

	byCollaborator, err := h.store.CumulationByCollaborator(actor(c), projectID)
	if err != nil {
		h.log.Errorw("cumulation by collaborator failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute cumulation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"byProject":      byProject,
		"byCollaborator": byCollaborator,
	})
}
