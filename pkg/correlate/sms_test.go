package correlate

import (
	"testing"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

func smsRecord(id, session string, ts *time.Time) evidence.Record {
	return evidence.Record{
		ID:        id,
		Type:      evidence.TypeSMS,
		Timestamp: ts,
		SMS:       &evidence.SMSFields{Text: "msg", ChatSession: session},
	}
}

func TestChatSequenceLinkerBuildsPath(t *testing.T) {
	t0 := mustTime(t, "2024-03-10T12:00:00Z")
	t1 := t0.Add(time.Minute)
	t2 := t0.Add(2 * time.Minute)

	// Out of order on purpose; the linker sorts within the session.
	records := []evidence.Record{
		smsRecord("s3", "sess1", &t2),
		smsRecord("s1", "sess1", t0),
		smsRecord("s2", "sess1", &t1),
		smsRecord("s4", "sess2", t0),
	}

	got := (&ChatSequenceLinker{}).Link(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates (a path, not a clique), got %d", len(got))
	}
	if got[0].ID1 != "s1" || got[0].ID2 != "s2" {
		t.Fatalf("expected first edge s1 -> s2, got %s -> %s", got[0].ID1, got[0].ID2)
	}
	if got[1].ID1 != "s2" || got[1].ID2 != "s3" {
		t.Fatalf("expected second edge s2 -> s3, got %s -> %s", got[1].ID1, got[1].ID2)
	}
	for _, c := range got {
		if c.Type != evidence.RelChatSequence || c.Confidence != 1.0 {
			t.Fatalf("unexpected candidate: %+v", c)
		}
	}
}

func TestChatSequenceLinkerSkipsUndatedMessages(t *testing.T) {
	t0 := mustTime(t, "2024-03-10T12:00:00Z")
	t1 := t0.Add(time.Minute)

	records := []evidence.Record{
		smsRecord("s1", "sess1", t0),
		smsRecord("s2", "sess1", nil),
		smsRecord("s3", "sess1", &t1),
	}

	got := (&ChatSequenceLinker{}).Link(records)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ID1 != "s1" || got[0].ID2 != "s3" {
		t.Fatalf("expected edge s1 -> s3, got %s -> %s", got[0].ID1, got[0].ID2)
	}
}

func TestChatSequenceLinkerIgnoresSessionlessMessages(t *testing.T) {
	t0 := mustTime(t, "2024-03-10T12:00:00Z")
	t1 := t0.Add(time.Minute)

	records := []evidence.Record{
		smsRecord("s1", "", t0),
		smsRecord("s2", "", &t1),
	}

	got := (&ChatSequenceLinker{}).Link(records)
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}
