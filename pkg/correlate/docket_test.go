package correlate

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/store/memory"
)

func docketRecord(id, eventType, memo string, ts *time.Time) evidence.Record {
	return evidence.Record{
		ID:        id,
		Type:      evidence.TypeDocket,
		Timestamp: ts,
		Docket:    &evidence.DocketFields{EventType: eventType, Memo: memo},
	}
}

func TestDocketAssociatorLinksRelevantEvidence(t *testing.T) {
	docketAt := mustTime(t, "2024-03-10T12:00:00Z")
	twelveBefore := docketAt.Add(-12 * time.Hour)
	sixBefore := docketAt.Add(-6 * time.Hour)

	s := memory.New()
	records := []evidence.Record{
		docketRecord("d1", "Motion to Compel", "outstanding discovery responses", docketAt),
		{
			ID: "e1", Type: evidence.TypeEmail, Timestamp: &twelveBefore,
			Email: &evidence.EmailFields{Subject: "Update", Body: "Draft of the motion to compel is attached."},
		},
		{
			ID: "e2", Type: evidence.TypeEmail, Timestamp: &sixBefore,
			Email: &evidence.EmailFields{
				Subject: "Motion to compel",
				Body:    "Covers the outstanding discovery responses too.",
			},
		},
		{
			ID: "e3", Type: evidence.TypeEmail, Timestamp: &sixBefore,
			Email: &evidence.EmailFields{Subject: "Lunch", Body: "Nothing relevant here."},
		},
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, err := NewDocketAssociator(s).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 associations, got %d", count)
	}

	edges, err := s.QueryRelationships(context.Background())
	if err != nil {
		t.Fatalf("query relationships: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}

	// e2 matches event type and memo plus the time bonus, so it is linked
	// first; e1 matches event type only.
	if edges[0].EvidenceID2 != "e2" || edges[1].EvidenceID2 != "e1" {
		t.Fatalf("expected descending score order e2, e1, got %s, %s", edges[0].EvidenceID2, edges[1].EvidenceID2)
	}
	for _, e := range edges {
		if e.EvidenceID1 != "d1" || e.Type != evidence.RelRelatedToDocket {
			t.Fatalf("unexpected edge: %+v", e)
		}
	}

	wantFirst := math.Min(0.5+0.3+0.2*(1-6.0/24.0), 1.0)
	if math.Abs(edges[0].Confidence-wantFirst) > 1e-9 {
		t.Fatalf("expected first score %f, got %f", wantFirst, edges[0].Confidence)
	}
	wantSecond := 0.5 + 0.2*(1-12.0/24.0)
	if math.Abs(edges[1].Confidence-wantSecond) > 1e-9 {
		t.Fatalf("expected second score %f, got %f", wantSecond, edges[1].Confidence)
	}
}

func TestDocketAssociatorWindow(t *testing.T) {
	docketAt := mustTime(t, "2024-03-10T12:00:00Z")
	fourDaysBefore := docketAt.Add(-4 * 24 * time.Hour)
	twoDaysAfter := docketAt.Add(2 * 24 * time.Hour)
	twoDaysBefore := docketAt.Add(-2 * 24 * time.Hour)

	s := memory.New()
	mention := evidence.EmailFields{Subject: "hearing prep", Body: "the hearing is coming up"}
	records := []evidence.Record{
		docketRecord("d1", "Hearing", "prep", docketAt),
		{ID: "early", Type: evidence.TypeEmail, Timestamp: &fourDaysBefore, Email: &mention},
		{ID: "late", Type: evidence.TypeEmail, Timestamp: &twoDaysAfter, Email: &mention},
		{ID: "inside", Type: evidence.TypeEmail, Timestamp: &twoDaysBefore, Email: &mention},
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, err := NewDocketAssociator(s).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the in-window record to link, got %d", count)
	}

	edges, _ := s.QueryRelationships(context.Background())
	if edges[0].EvidenceID2 != "inside" {
		t.Fatalf("expected the in-window record, got %s", edges[0].EvidenceID2)
	}
}

func TestDocketAssociatorScoreThreshold(t *testing.T) {
	docketAt := mustTime(t, "2024-03-10T12:00:00Z")
	twoBefore := docketAt.Add(-2 * time.Hour)

	s := memory.New()
	records := []evidence.Record{
		docketRecord("d1", "Motion to Compel", "", docketAt),
		// Time bonus alone tops out at 0.2, well under the link threshold.
		{
			ID: "e1", Type: evidence.TypeEmail, Timestamp: &twoBefore,
			Email: &evidence.EmailFields{Subject: "Unrelated", Body: "No mention of the event."},
		},
		// Phone calls have no searchable text and can never reach it either.
		{
			ID: "c1", Type: evidence.TypePhoneCall, Timestamp: &twoBefore,
			PhoneCall: &evidence.PhoneCallFields{DurationSeconds: 300},
		},
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, err := NewDocketAssociator(s).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no associations, got %d", count)
	}
}

func TestDocketAssociatorSkipsUndatedDockets(t *testing.T) {
	ts := mustTime(t, "2024-03-10T12:00:00Z")

	s := memory.New()
	records := []evidence.Record{
		docketRecord("d1", "Hearing", "", nil),
		{
			ID: "e1", Type: evidence.TypeEmail, Timestamp: ts,
			Email: &evidence.EmailFields{Subject: "hearing", Body: "hearing"},
		},
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, err := NewDocketAssociator(s).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no associations for an undated docket, got %d", count)
	}
}
