package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// ClearCaseHandler wipes the case after recording a named backup marker.
// Uploads are archived, not deleted, so the raw exports can be re-ingested.
func ClearCaseHandler(c echo.Context) error {
	type clearCaseBody struct {
		BackupName  string `json:"backup_name" validate:"required"`
		Description string `json:"description"`
	}

	type clearCaseResponse struct {
		Message  string `json:"message"`
		BackupID string `json:"backup_id,omitempty"`
	}

	data := new(clearCaseBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, clearCaseResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, clearCaseResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	backupID, err := evidenceStore.ClearCase(ctx, data.BackupName, data.Description)
	if err != nil {
		logger.Error("Failed to clear case", "err", err)
		return c.JSON(http.StatusInternalServerError, clearCaseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, clearCaseResponse{
		Message:  "Case cleared successfully",
		BackupID: backupID,
	})
}
