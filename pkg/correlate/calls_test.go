package correlate

import (
	"math"
	"testing"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

func callRecord(id string, ts *time.Time) evidence.Record {
	return evidence.Record{
		ID:        id,
		Type:      evidence.TypePhoneCall,
		Timestamp: ts,
		PhoneCall: &evidence.PhoneCallFields{DurationSeconds: 120},
	}
}

func TestCallFollowedByLinker(t *testing.T) {
	t0 := mustTime(t, "2024-03-10T12:00:00Z")
	sixAfter := t0.Add(6 * time.Minute)
	fifteenAfter := t0.Add(15 * time.Minute)
	fortyAfter := t0.Add(40 * time.Minute)
	sixBefore := t0.Add(-6 * time.Minute)

	t.Run("close followup links with decayed confidence", func(t *testing.T) {
		records := []evidence.Record{
			callRecord("c1", t0),
			emailRecord("e1", evidence.EmailFields{Subject: "Following up"}, &sixAfter),
		}
		got := (&CallFollowedByLinker{Threshold: 0.7}).Link(records)
		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(got))
		}
		want := 1.0 - 6.0/30.0
		if math.Abs(got[0].Confidence-want) > 1e-9 {
			t.Fatalf("expected confidence %f, got %f", want, got[0].Confidence)
		}
		if got[0].ID1 != "c1" || got[0].ID2 != "e1" {
			t.Fatalf("expected c1 -> e1, got %s -> %s", got[0].ID1, got[0].ID2)
		}
	})

	t.Run("threshold gates distant followups", func(t *testing.T) {
		records := []evidence.Record{
			callRecord("c1", t0),
			smsRecord("s1", "sess", &fifteenAfter),
		}
		// 15 minutes gives 0.5, under the default threshold.
		got := (&CallFollowedByLinker{Threshold: 0.7}).Link(records)
		if len(got) != 0 {
			t.Fatalf("expected no candidates at 0.7, got %d", len(got))
		}
		got = (&CallFollowedByLinker{Threshold: 0.4}).Link(records)
		if len(got) != 1 {
			t.Fatalf("expected 1 candidate at 0.4, got %d", len(got))
		}
	})

	t.Run("outside thirty minutes", func(t *testing.T) {
		records := []evidence.Record{
			callRecord("c1", t0),
			emailRecord("e1", evidence.EmailFields{}, &fortyAfter),
		}
		got := (&CallFollowedByLinker{Threshold: 0.1}).Link(records)
		if len(got) != 0 {
			t.Fatalf("expected no candidates, got %d", len(got))
		}
	})

	t.Run("earlier evidence never links", func(t *testing.T) {
		records := []evidence.Record{
			callRecord("c1", t0),
			emailRecord("e1", evidence.EmailFields{}, &sixBefore),
		}
		got := (&CallFollowedByLinker{Threshold: 0.1}).Link(records)
		if len(got) != 0 {
			t.Fatalf("expected no candidates, got %d", len(got))
		}
	})

	t.Run("other calls are not followups", func(t *testing.T) {
		records := []evidence.Record{
			callRecord("c1", t0),
			callRecord("c2", &sixAfter),
		}
		got := (&CallFollowedByLinker{Threshold: 0.1}).Link(records)
		if len(got) != 0 {
			t.Fatalf("expected no candidates, got %d", len(got))
		}
	})
}
