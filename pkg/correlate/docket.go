package correlate

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

const (
	docketWindowBefore = 3 * 24 * time.Hour
	docketWindowAfter  = 24 * time.Hour

	// docketLinkThreshold is the minimum relevance score for attaching a
	// record to a docket event.
	docketLinkThreshold = 0.6
)

// DocketAssociator links evidence records to docket events by timing and
// content relevance. It runs as its own pass, separate from the edge
// heuristics, and writes related_to_docket edges with the docket event as
// the first endpoint.
type DocketAssociator struct {
	store Store
}

func NewDocketAssociator(store Store) *DocketAssociator {
	return &DocketAssociator{store: store}
}

type scoredRecord struct {
	record evidence.Record
	score  float64
}

// Run associates every timestamped docket event with the records that fall
// inside its window, three days before through one day after, and score at
// least the relevance threshold. Candidates are linked in descending score
// order; a failed insert is logged and skipped. It returns the number of
// associations created.
func (a *DocketAssociator) Run(ctx context.Context) (int, error) {
	dockets, err := a.store.QueryEvidence(ctx, evidence.Filter{Type: evidence.TypeDocket})
	if err != nil {
		return 0, err
	}
	all, err := a.store.QueryEvidence(ctx, evidence.Filter{})
	if err != nil {
		return 0, err
	}

	others := make([]evidence.Record, 0, len(all))
	for _, r := range all {
		if r.Type != evidence.TypeDocket {
			others = append(others, r)
		}
	}

	count := 0
	for _, docket := range dockets {
		if docket.Timestamp == nil {
			continue
		}
		windowStart := docket.Timestamp.Add(-docketWindowBefore)
		windowEnd := docket.Timestamp.Add(docketWindowAfter)

		related := make([]scoredRecord, 0)
		for _, r := range others {
			if r.Timestamp == nil {
				continue
			}
			if r.Timestamp.Before(windowStart) || r.Timestamp.After(windowEnd) {
				continue
			}
			score := docketRelevance(docket, r)
			if score >= docketLinkThreshold {
				related = append(related, scoredRecord{record: r, score: score})
			}
		}

		sort.SliceStable(related, func(i, j int) bool {
			return related[i].score > related[j].score
		})

		for _, sr := range related {
			_, err := a.store.AppendRelationship(ctx, docket.ID, sr.record.ID, evidence.RelRelatedToDocket, sr.score)
			if err != nil {
				logger.Warn("[Correlate][Docket] Skipping association", "docket", docket.ID, "evidence", sr.record.ID, "error", err)
				continue
			}
			count++
		}
	}

	logger.Info("[Correlate][Docket] Pass complete", "dockets", len(dockets), "associations", count)
	return count, nil
}

// docketRelevance scores how strongly a record relates to a docket event.
// Content matches dominate: mentioning the event type is worth 0.5 and the
// memo 0.3, while timing within a day adds at most 0.2. Phone calls carry
// no searchable text, so they can only earn the time component and never
// reach the link threshold.
func docketRelevance(docket, r evidence.Record) float64 {
	score := 0.0

	var eventType, memo string
	if docket.Docket != nil {
		eventType = strings.ToLower(docket.Docket.EventType)
		memo = strings.ToLower(docket.Docket.Memo)
	}

	switch r.Type {
	case evidence.TypeEmail:
		if r.Email != nil {
			subject := strings.ToLower(r.Email.Subject)
			body := strings.ToLower(r.Email.Body)
			if eventType != "" && (strings.Contains(body, eventType) || strings.Contains(subject, eventType)) {
				score += 0.5
			}
			if memo != "" && (strings.Contains(body, memo) || strings.Contains(subject, memo)) {
				score += 0.3
			}
		}
	case evidence.TypeSMS:
		if r.SMS != nil {
			text := strings.ToLower(r.SMS.Text)
			if eventType != "" && strings.Contains(text, eventType) {
				score += 0.5
			}
			if memo != "" && strings.Contains(text, memo) {
				score += 0.3
			}
		}
	}

	if r.Timestamp != nil && docket.Timestamp != nil {
		hours := r.Timestamp.Sub(*docket.Timestamp).Abs().Hours()
		if hours <= 24 {
			score += 0.2 * (1 - hours/24)
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
