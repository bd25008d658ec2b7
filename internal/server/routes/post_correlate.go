package routes

import (
	"encoding/json"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kestrel-legal/matterlog/backend/internal/queue"
	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// CorrelateHandler queues one correlation pass. The worker loads a snapshot
// and writes the resulting edges; repeated requests accumulate edges unless
// dedupe is set.
func CorrelateHandler(c echo.Context) error {
	type correlateBody struct {
		Threshold float64 `json:"threshold"`
		Dedupe    bool    `json:"dedupe"`
	}

	type correlateResponse struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	}

	data := new(correlateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, correlateResponse{
			Message: "Invalid request body",
		})
	}
	if data.Threshold < 0 || data.Threshold > 1 {
		return c.JSON(http.StatusBadRequest, correlateResponse{
			Message: "Threshold must be between 0 and 1",
		})
	}

	requestID := uuid.New().String()
	queueData := queue.CorrelateJobMsg{
		Message:   "Correlation pass requested",
		RequestID: requestID,
		Threshold: data.Threshold,
		Dedupe:    data.Dedupe,
	}
	msgBytes, err := json.Marshal(queueData)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, correlateResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.CorrelateQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to correlate_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, correlateResponse{
			Message: "Failed to queue correlation pass",
		})
	}

	return c.JSON(http.StatusAccepted, correlateResponse{
		Message:   "Correlation pass queued",
		RequestID: requestID,
	})
}

// DocketAssociationsHandler queues one docket association pass.
func DocketAssociationsHandler(c echo.Context) error {
	type docketResponse struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	}

	requestID := uuid.New().String()
	queueData := queue.DocketJobMsg{
		Message:   "Docket association pass requested",
		RequestID: requestID,
	}
	msgBytes, err := json.Marshal(queueData)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, docketResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DocketQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to docket_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, docketResponse{
			Message: "Failed to queue docket association pass",
		})
	}

	return c.JSON(http.StatusAccepted, docketResponse{
		Message:   "Docket association pass queued",
		RequestID: requestID,
	})
}
