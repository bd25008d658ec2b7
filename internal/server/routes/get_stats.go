package routes

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// GetStatsHandler returns case-level counts. The per-type counts and the
// relationship count are independent queries, so they run concurrently.
func GetStatsHandler(c echo.Context) error {
	type statsResponse struct {
		Message       string           `json:"message,omitempty"`
		TotalEvidence int64            `json:"total_evidence"`
		ByType        map[string]int64 `json:"by_type"`
		Relationships int64            `json:"relationships"`
	}

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	var (
		mu    sync.Mutex
		stats = statsResponse{ByType: make(map[string]int64)}
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := evidenceStore.CountEvidence(gctx, "")
		if err != nil {
			return err
		}
		mu.Lock()
		stats.TotalEvidence = n
		mu.Unlock()
		return nil
	})

	for _, t := range []evidence.Type{evidence.TypeEmail, evidence.TypeSMS, evidence.TypeDocket, evidence.TypePhoneCall} {
		g.Go(func() error {
			n, err := evidenceStore.CountEvidence(gctx, t)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.ByType[string(t)] = n
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		n, err := evidenceStore.CountRelationships(gctx)
		if err != nil {
			return err
		}
		mu.Lock()
		stats.Relationships = n
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Failed to collect stats", "err", err)
		return c.JSON(http.StatusInternalServerError, statsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, stats)
}
