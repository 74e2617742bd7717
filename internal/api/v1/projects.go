package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fichetrack/internal/model"
)

// ListProjects returns the actor's projects with their versions.
// GET /api/projects?filiale=&status=&search=
func (h *Handler) ListProjects(c *gin.Context) {
	var filiale *string
	if v := c.Query("filiale"); v != "" {
		filiale = &v
	}

	projects, err := h.store.ListProjects(actor(c), filiale)
	if err != nil {
		h.log.Errorw("list projects failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}

	for _, project := range projects {
		if err := h.loadVersions(project); err != nil {
			h.log.Errorw("load versions failed", "project", project.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
			return
		}
	}

	projects = filterProjects(projects, c.Query("status"), c.Query("search"))

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns one project with versions, collaborators, plannings.
// GET /api/projects/:id
func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.store.GetProject(c.Param("id"))
	if err != nil {
		h.log.Errorw("get project failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if project.UserID != actor(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "this project does not belong to you"})
		return
	}

	if err := h.loadVersions(project); err != nil {
		h.log.Errorw("load versions failed", "project", project.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject deletes a project and everything under it.
// DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	project, err := h.store.GetProject(c.Param("id"))
	if err != nil {
		h.log.Errorw("get project failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if project.UserID != actor(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to delete this project"})
		return
	}

	if err := h.store.DeleteProject(project.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.log.Errorw("delete project failed", "project", project.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "project deleted successfully",
		"project": project,
	})
}

// loadVersions attaches a project's versions with their collaborator and
// planning children, newest version first.
func (h *Handler) loadVersions(project *model.Project) error {
	versions, err := h.store.ListVersions(project.ID)
	if err != nil {
		return err
	}
	for _, version := range versions {
		if version.Collaborators, err = h.store.ListVersionCollaborators(version.ID); err != nil {
			return err
		}
		if version.Plannings, err = h.store.ListPlannings(version.ID); err != nil {
			return err
		}
	}
	project.Versions = versions
	return nil
}

// filterProjects applies the status and free-text filters the UI sends.
// Status filters on the latest version, matching how the list is displayed.
func filterProjects(projects []*model.Project, status, search string) []*model.Project {
	if status == "" && search == "" {
		return projects
	}

	search = strings.ToLower(search)
	filtered := make([]*model.Project, 0, len(projects))
	for _, p := range projects {
		if search != "" {
			titre := ""
			if p.Titre != nil {
				titre = *p.Titre
			}
			if !strings.Contains(strings.ToLower(titre), search) &&
				!strings.Contains(strings.ToLower(p.Reference), search) &&
				!strings.Contains(strings.ToLower(p.Filiale), search) {
				continue
			}
		}
		if status != "" {
			if len(p.Versions) == 0 || string(p.Versions[0].Status) != status {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}
