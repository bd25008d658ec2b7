package projects

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// Store is the slice of persistence the clusterer needs.
type Store interface {
	QueryEvidence(ctx context.Context, filter evidence.Filter) ([]evidence.Record, error)
}

// threadMinimum is the number of emails a normalized subject needs before it
// is suggested as a thread project.
const threadMinimum = 5

// docketCategories are matched against cleaned docket event types, in this
// order. Order is part of the output contract: suggestions are returned
// categories first, threads after.
var docketCategories = []struct {
	name     string
	keywords []string
}{
	{"motion", []string{"motion", "opposition", "reply"}},
	{"discovery", []string{"discovery", "deposition", "request", "production"}},
	{"hearing", []string{"hearing", "trial", "conference"}},
	{"filing", []string{"complaint", "answer", "petition"}},
}

// Suggest recomputes advisory project groupings from the current evidence:
// one suggestion per docket category with activity, then one per email
// thread of at least five messages sharing a normalized subject. Nothing is
// persisted; a reviewer accepts suggestions into projects separately.
func Suggest(ctx context.Context, store Store) ([]evidence.ProjectSuggestion, error) {
	suggestions := make([]evidence.ProjectSuggestion, 0)

	dockets, err := store.QueryEvidence(ctx, evidence.Filter{Type: evidence.TypeDocket})
	if err != nil {
		return nil, err
	}

	for _, category := range docketCategories {
		matched := make([]evidence.Record, 0)
		for _, d := range dockets {
			if d.Docket == nil {
				continue
			}
			cleanType := strings.ToLower(strings.TrimSpace(d.Docket.EventType))
			for _, keyword := range category.keywords {
				if strings.Contains(cleanType, keyword) {
					matched = append(matched, d)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		sortByTimestamp(matched)
		suggestions = append(suggestions, evidence.ProjectSuggestion{
			Name:        capitalize(category.name) + " Project",
			Description: fmt.Sprintf("Automatically identified %s activities", category.name),
			Start:       matched[0].Timestamp,
			End:         matched[len(matched)-1].Timestamp,
			EvidenceIDs: recordIDs(matched),
		})
	}

	emails, err := store.QueryEvidence(ctx, evidence.Filter{Type: evidence.TypeEmail})
	if err != nil {
		return nil, err
	}

	threads := make(map[string][]evidence.Record)
	for _, e := range emails {
		if e.Email == nil || e.Email.Subject == "" {
			continue
		}
		subject := evidence.NormalizeSubject(e.Email.Subject)
		threads[subject] = append(threads[subject], e)
	}

	subjects := make([]string, 0, len(threads))
	for subject, group := range threads {
		if len(group) >= threadMinimum {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		group := threads[subject]
		sortByTimestamp(group)
		suggestions = append(suggestions, evidence.ProjectSuggestion{
			Name:        fmt.Sprintf("Email Thread: %s...", truncate(subject, 30)),
			Description: fmt.Sprintf("Automatically identified email thread with %d messages", len(group)),
			Start:       group[0].Timestamp,
			End:         group[len(group)-1].Timestamp,
			EvidenceIDs: recordIDs(group),
		})
	}

	logger.Debug("[Projects][Suggest] Computed suggestions", "count", len(suggestions))
	return suggestions, nil
}

// sortByTimestamp orders ascending with undated records first, matching how
// timelines sort everywhere else.
func sortByTimestamp(records []evidence.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].Timestamp, records[j].Timestamp
		switch {
		case ti == nil:
			return tj != nil
		case tj == nil:
			return false
		default:
			return ti.Before(*tj)
		}
	})
}

func recordIDs(records []evidence.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
