package routes

import (
	"errors"
	"net/http"
	"time"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	"github.com/kestrel-legal/matterlog/backend/pkg/store"
)

// GetEvidenceHandler returns the case timeline, optionally narrowed by
// evidence type and an inclusive date range.
func GetEvidenceHandler(c echo.Context) error {
	type getEvidenceQuery struct {
		Type      string `query:"type"`
		StartDate string `query:"start_date"`
		EndDate   string `query:"end_date"`
	}

	type getEvidenceResponse struct {
		Message  string            `json:"message,omitempty"`
		Evidence []evidence.Record `json:"evidence"`
		Count    int               `json:"count"`
	}

	params := new(getEvidenceQuery)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getEvidenceResponse{
			Message: "Invalid query parameters",
		})
	}

	filter := evidence.Filter{Type: evidence.Type(params.Type)}
	if params.StartDate != "" {
		start, err := time.Parse(time.RFC3339, params.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, getEvidenceResponse{
				Message: "Invalid start_date, expected RFC3339",
			})
		}
		filter.Start = &start
	}
	if params.EndDate != "" {
		end, err := time.Parse(time.RFC3339, params.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, getEvidenceResponse{
				Message: "Invalid end_date, expected RFC3339",
			})
		}
		filter.End = &end
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	records, err := evidenceStore.QueryEvidence(ctx, filter)
	if err != nil {
		logger.Error("Failed to query evidence", "err", err)
		return c.JSON(http.StatusInternalServerError, getEvidenceResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getEvidenceResponse{
		Evidence: records,
		Count:    len(records),
	})
}

// GetEvidenceByIDHandler returns a single evidence record.
func GetEvidenceByIDHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing evidence id"})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	record, err := evidenceStore.GetEvidenceByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Evidence not found"})
	}
	if err != nil {
		logger.Error("Failed to get evidence", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, record)
}

// GetRelatedEvidenceHandler returns the records connected to one record
// through the relationship graph, regardless of edge direction.
func GetRelatedEvidenceHandler(c echo.Context) error {
	type relatedResponse struct {
		Message  string            `json:"message,omitempty"`
		Evidence []evidence.Record `json:"evidence"`
		Count    int               `json:"count"`
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, relatedResponse{Message: "Missing evidence id"})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	if _, err := evidenceStore.GetEvidenceByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, relatedResponse{Message: "Evidence not found"})
		}
		logger.Error("Failed to get evidence", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, relatedResponse{Message: "Internal server error"})
	}

	records, err := evidenceStore.GetRelatedEvidence(ctx, id)
	if err != nil {
		logger.Error("Failed to get related evidence", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, relatedResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, relatedResponse{
		Evidence: records,
		Count:    len(records),
	})
}
