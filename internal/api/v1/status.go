package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the service status snapshot for the acting user.
type StatusResponse struct {
	Projects      int `json:"projects"`
	Versions      int `json:"versions"`
	Collaborators int `json:"collaborators"`
	DailyTotal    int `json:"dailyTotal"`
	DailyImputed  int `json:"dailyImputed"`
}

// GetStatus reports entity counts for the acting user.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	userID := actor(c)
	var resp StatusResponse

	err := h.store.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM projects WHERE user_id = ?),
			(SELECT COUNT(*) FROM instruction_versions v JOIN projects p ON p.id = v.project_id WHERE p.user_id = ?),
			(SELECT COUNT(*) FROM collaborator_lines WHERE user_id = ?),
			(SELECT COUNT(*) FROM daily_imputations WHERE user_id = ?),
			(SELECT COALESCE(SUM(is_imputed), 0) FROM daily_imputations WHERE user_id = ?)
	`, userID, userID, userID, userID, userID).Scan(
		&resp.Projects, &resp.Versions, &resp.Collaborators, &resp.DailyTotal, &resp.DailyImputed,
	)
	if err != nil {
		h.log.Errorw("status query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute status"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
