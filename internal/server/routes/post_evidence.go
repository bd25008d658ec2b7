package routes

import (
	"errors"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	"github.com/kestrel-legal/matterlog/backend/pkg/store"
)

// CreateEvidenceHandler bulk-inserts normalized records delivered by the
// ingestion pipeline.
func CreateEvidenceHandler(c echo.Context) error {
	type createEvidenceBody struct {
		Evidence []evidence.Record `json:"evidence" validate:"required,min=1"`
	}

	type createEvidenceResponse struct {
		Message  string `json:"message"`
		Inserted int    `json:"inserted"`
	}

	data := new(createEvidenceBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvidenceResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvidenceResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	inserted, err := evidenceStore.InsertEvidence(ctx, data.Evidence)
	if err != nil {
		logger.Error("Failed to insert evidence", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvidenceResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, createEvidenceResponse{
		Message:  "Evidence stored successfully",
		Inserted: inserted,
	})
}

// UpdateEvidenceContactHandler applies reviewer contact enrichment to one
// record.
func UpdateEvidenceContactHandler(c echo.Context) error {
	type updateContactBody struct {
		ID           string `param:"id" validate:"required"`
		Contact      string `json:"contact" validate:"required"`
		ContactEmail string `json:"contact_email"`
	}

	data := new(updateContactBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	err := evidenceStore.UpdateEvidenceContact(ctx, data.ID, data.Contact, data.ContactEmail)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Evidence not found"})
	}
	if err != nil {
		logger.Error("Failed to update evidence contact", "id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Contact updated successfully"})
}
