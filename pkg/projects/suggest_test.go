package projects

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/store/memory"
)

func mustTime(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return &ts
}

func docketRecord(id, eventType string, ts *time.Time) evidence.Record {
	return evidence.Record{
		ID:        id,
		Type:      evidence.TypeDocket,
		Timestamp: ts,
		Docket:    &evidence.DocketFields{EventType: eventType},
	}
}

func emailRecord(id, subject string, ts *time.Time) evidence.Record {
	return evidence.Record{
		ID:        id,
		Type:      evidence.TypeEmail,
		Timestamp: ts,
		Email:     &evidence.EmailFields{Subject: subject, Body: "body"},
	}
}

func TestSuggestDocketCategories(t *testing.T) {
	jan1 := mustTime(t, "2024-01-01T09:00:00Z")
	jan5 := mustTime(t, "2024-01-05T09:00:00Z")
	feb1 := mustTime(t, "2024-02-01T09:00:00Z")

	s := memory.New()
	records := []evidence.Record{
		docketRecord("d1", "Motion to Dismiss", jan5),
		docketRecord("d2", "Opposition to Motion", jan1),
		docketRecord("d3", "Deposition Notice", feb1),
		docketRecord("d4", "Status Memo", jan1),
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := Suggest(context.Background(), s)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}

	motion := got[0]
	if motion.Name != "Motion Project" {
		t.Fatalf("expected Motion Project first, got %q", motion.Name)
	}
	if motion.Description != "Automatically identified motion activities" {
		t.Fatalf("unexpected description: %q", motion.Description)
	}
	if len(motion.EvidenceIDs) != 2 || motion.EvidenceIDs[0] != "d2" || motion.EvidenceIDs[1] != "d1" {
		t.Fatalf("expected chronological ids [d2 d1], got %v", motion.EvidenceIDs)
	}
	if !motion.Start.Equal(*jan1) || !motion.End.Equal(*jan5) {
		t.Fatalf("unexpected date range: %v .. %v", motion.Start, motion.End)
	}

	discovery := got[1]
	if discovery.Name != "Discovery Project" {
		t.Fatalf("expected Discovery Project second, got %q", discovery.Name)
	}
	if len(discovery.EvidenceIDs) != 1 || discovery.EvidenceIDs[0] != "d3" {
		t.Fatalf("unexpected discovery ids: %v", discovery.EvidenceIDs)
	}
}

func TestSuggestEmailThreads(t *testing.T) {
	base := mustTime(t, "2024-01-01T09:00:00Z")

	s := memory.New()
	records := make([]evidence.Record, 0)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		subject := "Settlement terms"
		if i > 0 {
			subject = "Re: Settlement terms"
		}
		records = append(records, emailRecord(fmt.Sprintf("e%d", i), subject, &ts))
	}
	// Four messages stay under the thread minimum.
	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		records = append(records, emailRecord(fmt.Sprintf("q%d", i), "Quick question", &ts))
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := Suggest(context.Background(), s)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}

	thread := got[0]
	if thread.Name != "Email Thread: settlement terms..." {
		t.Fatalf("unexpected name: %q", thread.Name)
	}
	if thread.Description != "Automatically identified email thread with 5 messages" {
		t.Fatalf("unexpected description: %q", thread.Description)
	}
	if len(thread.EvidenceIDs) != 5 || thread.EvidenceIDs[0] != "e0" || thread.EvidenceIDs[4] != "e4" {
		t.Fatalf("unexpected ids: %v", thread.EvidenceIDs)
	}
}

func TestSuggestLongSubjectIsTruncated(t *testing.T) {
	base := mustTime(t, "2024-01-01T09:00:00Z")
	subject := "Extremely long subject line about the upcoming deposition schedule"

	s := memory.New()
	records := make([]evidence.Record, 0, 5)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		records = append(records, emailRecord(fmt.Sprintf("e%d", i), subject, &ts))
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := Suggest(context.Background(), s)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	want := "Email Thread: extremely long subject line ab..."
	if got[0].Name != want {
		t.Fatalf("expected %q, got %q", want, got[0].Name)
	}
}

func TestSuggestOrderIsCategoriesThenThreads(t *testing.T) {
	base := mustTime(t, "2024-01-01T09:00:00Z")

	s := memory.New()
	records := []evidence.Record{
		docketRecord("d1", "Trial Setting Conference", base),
		docketRecord("d2", "Complaint Filed", base),
	}
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		records = append(records, emailRecord(fmt.Sprintf("e%d", i), "Status update", &ts))
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := Suggest(context.Background(), s)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	wantNames := []string{"Hearing Project", "Filing Project", "Email Thread: status update..."}
	if len(got) != len(wantNames) {
		t.Fatalf("expected %d suggestions, got %d", len(wantNames), len(got))
	}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Fatalf("suggestion %d: expected %q, got %q", i, want, got[i].Name)
		}
	}
}

func TestSuggestEmptyStore(t *testing.T) {
	got, err := Suggest(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(got))
	}
}
