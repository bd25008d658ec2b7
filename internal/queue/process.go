package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-legal/matterlog/backend/internal/util"
	"github.com/kestrel-legal/matterlog/backend/pkg/correlate"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	storepgx "github.com/kestrel-legal/matterlog/backend/pkg/store/pgx"
)

// CorrelateJobMsg asks the worker for one correlation pass over the case.
type CorrelateJobMsg struct {
	Message   string  `json:"message"`
	RequestID string  `json:"request_id,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Dedupe    bool    `json:"dedupe,omitempty"`
}

// DocketJobMsg asks the worker for one docket association pass.
type DocketJobMsg struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ProcessCorrelateMessage runs one correlation pass for a queued job.
// Returning an error sends the message through the retry/DLQ path.
func ProcessCorrelateMessage(ctx context.Context, conn *pgxpool.Pool, msgBody string) error {
	var data CorrelateJobMsg
	if err := json.Unmarshal([]byte(msgBody), &data); err != nil {
		return fmt.Errorf("failed to unmarshal correlate job: %w", err)
	}

	// Env defaults apply when the job does not pin its own settings.
	threshold := data.Threshold
	if threshold == 0 {
		threshold = util.GetEnvNumeric("CORRELATE_THRESHOLD", 0)
	}
	dedupe := data.Dedupe || util.GetEnvBool("CORRELATE_DEDUPE", false)

	logger.Info("[Queue][Correlate] Starting pass", "request_id", data.RequestID, "threshold", threshold, "dedupe", dedupe)

	store := storepgx.NewEvidenceDBStorageWithConnection(conn)
	engine := correlate.NewEngine(store, correlate.Config{
		Threshold:          threshold,
		DedupeBeforeInsert: dedupe,
	})

	inserted, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("correlation pass failed: %w", err)
	}

	logger.Info("[Queue][Correlate] Pass finished", "request_id", data.RequestID, "edges", inserted)
	return nil
}

// ProcessDocketMessage runs one docket association pass for a queued job.
func ProcessDocketMessage(ctx context.Context, conn *pgxpool.Pool, msgBody string) error {
	var data DocketJobMsg
	if err := json.Unmarshal([]byte(msgBody), &data); err != nil {
		return fmt.Errorf("failed to unmarshal docket job: %w", err)
	}

	logger.Info("[Queue][Docket] Starting pass", "request_id", data.RequestID)

	store := storepgx.NewEvidenceDBStorageWithConnection(conn)
	count, err := correlate.NewDocketAssociator(store).Run(ctx)
	if err != nil {
		return fmt.Errorf("docket association pass failed: %w", err)
	}

	logger.Info("[Queue][Docket] Pass finished", "request_id", data.RequestID, "associations", count)
	return nil
}
