package routes

import (
	"net/http"
	"time"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	"github.com/kestrel-legal/matterlog/backend/pkg/projects"
)

// GetProjectSuggestionsHandler recomputes advisory groupings from the
// current evidence. Nothing is persisted here.
func GetProjectSuggestionsHandler(c echo.Context) error {
	type suggestionsResponse struct {
		Message     string                       `json:"message,omitempty"`
		Suggestions []evidence.ProjectSuggestion `json:"suggestions"`
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	suggestions, err := projects.Suggest(ctx, evidenceStore)
	if err != nil {
		logger.Error("Failed to compute project suggestions", "err", err)
		return c.JSON(http.StatusInternalServerError, suggestionsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, suggestionsResponse{
		Suggestions: suggestions,
	})
}

// GetProjectsHandler lists accepted projects.
func GetProjectsHandler(c echo.Context) error {
	type projectsResponse struct {
		Message  string             `json:"message,omitempty"`
		Projects []evidence.Project `json:"projects"`
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	list, err := evidenceStore.ListProjects(ctx)
	if err != nil {
		logger.Error("Failed to list projects", "err", err)
		return c.JSON(http.StatusInternalServerError, projectsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, projectsResponse{Projects: list})
}

// CreateProjectHandler persists a project, typically an accepted
// suggestion, and links its evidence.
func CreateProjectHandler(c echo.Context) error {
	type createProjectBody struct {
		Name        string   `json:"name" validate:"required"`
		Description string   `json:"description"`
		StartDate   string   `json:"start_date"`
		EndDate     string   `json:"end_date"`
		EvidenceIDs []string `json:"evidence_ids"`
	}

	type createProjectResponse struct {
		Message   string `json:"message"`
		ProjectID string `json:"project_id,omitempty"`
		Linked    int    `json:"linked,omitempty"`
	}

	data := new(createProjectBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createProjectResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createProjectResponse{
			Message: "Invalid request body",
		})
	}

	project := evidence.Project{
		Name:        data.Name,
		Description: data.Description,
	}
	if data.StartDate != "" {
		start, err := time.Parse(time.RFC3339, data.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, createProjectResponse{
				Message: "Invalid start_date, expected RFC3339",
			})
		}
		project.Start = &start
	}
	if data.EndDate != "" {
		end, err := time.Parse(time.RFC3339, data.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, createProjectResponse{
				Message: "Invalid end_date, expected RFC3339",
			})
		}
		project.End = &end
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	projectID, err := evidenceStore.CreateProject(ctx, project)
	if err != nil {
		logger.Error("Failed to create project", "err", err)
		return c.JSON(http.StatusInternalServerError, createProjectResponse{
			Message: "Internal server error",
		})
	}

	// Unknown evidence ids are skipped, not fatal: a stale suggestion may
	// reference records cleared since it was computed.
	linked := 0
	for _, evidenceID := range data.EvidenceIDs {
		if _, err := evidenceStore.LinkEvidenceToProject(ctx, evidenceID, projectID); err != nil {
			logger.Warn("Failed to link evidence to project", "evidence_id", evidenceID, "project_id", projectID, "err", err)
			continue
		}
		linked++
	}

	return c.JSON(http.StatusOK, createProjectResponse{
		Message:   "Project created successfully",
		ProjectID: projectID,
		Linked:    linked,
	})
}

// GetProjectEvidenceHandler returns a project's linked records in timeline
// order.
func GetProjectEvidenceHandler(c echo.Context) error {
	type projectEvidenceResponse struct {
		Message  string            `json:"message,omitempty"`
		Evidence []evidence.Record `json:"evidence"`
		Count    int               `json:"count"`
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, projectEvidenceResponse{Message: "Missing project id"})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	records, err := evidenceStore.GetEvidenceForProject(ctx, projectID)
	if err != nil {
		logger.Error("Failed to get project evidence", "project_id", projectID, "err", err)
		return c.JSON(http.StatusInternalServerError, projectEvidenceResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, projectEvidenceResponse{
		Evidence: records,
		Count:    len(records),
	})
}
