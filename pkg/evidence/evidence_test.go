package evidence

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return &ts
}

func TestFilterMatches(t *testing.T) {
	ts := mustTime(t, "2024-03-10T12:00:00Z")
	before := mustTime(t, "2024-03-01T00:00:00Z")
	after := mustTime(t, "2024-03-20T00:00:00Z")

	email := Record{ID: "e1", Type: TypeEmail, Timestamp: ts}
	undated := Record{ID: "e2", Type: TypeSMS}

	tests := []struct {
		name   string
		filter Filter
		record Record
		want   bool
	}{
		{"zero filter matches anything", Filter{}, email, true},
		{"zero filter matches undated", Filter{}, undated, true},
		{"type match", Filter{Type: TypeEmail}, email, true},
		{"type mismatch", Filter{Type: TypeDocket}, email, false},
		{"inside range", Filter{Start: before, End: after}, email, true},
		{"start is inclusive", Filter{Start: ts}, email, true},
		{"end is inclusive", Filter{End: ts}, email, true},
		{"before start", Filter{Start: after}, email, false},
		{"after end", Filter{End: before}, email, false},
		{"undated fails bounded filter", Filter{Start: before}, undated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(tt.record)
			if got != tt.want {
				t.Fatalf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordClone(t *testing.T) {
	ts := mustTime(t, "2024-03-10T12:00:00Z")
	original := Record{
		ID:        "e1",
		Type:      TypeEmail,
		Timestamp: ts,
		Email:     &EmailFields{Subject: "Motion schedule", MessageID: "<m1>"},
		Raw:       map[string]any{"source": "export.csv"},
	}

	clone := original.Clone()
	clone.Email.Subject = "changed"
	clone.Raw["source"] = "other"
	*clone.Timestamp = clone.Timestamp.Add(time.Hour)

	if original.Email.Subject != "Motion schedule" {
		t.Fatalf("clone mutation leaked into original email fields: %q", original.Email.Subject)
	}
	if original.Raw["source"] != "export.csv" {
		t.Fatalf("clone mutation leaked into original raw data: %v", original.Raw["source"])
	}
	if !original.Timestamp.Equal(*mustTime(t, "2024-03-10T12:00:00Z")) {
		t.Fatalf("clone mutation leaked into original timestamp: %v", original.Timestamp)
	}
}
