package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCollaborators returns every collaborator line owned by the actor,
// with daily-row counts.
// GET /api/collaborators
func (h *Handler) ListCollaborators(c *gin.Context) {
	collaborators, err := h.store.ListUserCollaborators(actor(c))
	if err != nil {
		h.log.Errorw("list collaborators failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch collaborators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": collaborators})
}
