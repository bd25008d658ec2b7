package correlate

import (
	"sort"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

// ChatSequenceLinker connects timestamp-adjacent SMS messages within a chat
// session: a path through the session, not a clique. Messages without a
// timestamp cannot be ordered and are left out.
type ChatSequenceLinker struct{}

func (l *ChatSequenceLinker) Name() string { return "chat_sequence" }

func (l *ChatSequenceLinker) Link(records []evidence.Record) []Candidate {
	sessions := make(map[string][]evidence.Record)
	order := make([]string, 0)
	for _, r := range records {
		if r.Type != evidence.TypeSMS || r.SMS == nil || r.SMS.ChatSession == "" {
			continue
		}
		if r.Timestamp == nil {
			continue
		}
		if _, ok := sessions[r.SMS.ChatSession]; !ok {
			order = append(order, r.SMS.ChatSession)
		}
		sessions[r.SMS.ChatSession] = append(sessions[r.SMS.ChatSession], r)
	}

	out := make([]Candidate, 0)
	for _, session := range order {
		messages := sessions[session]
		sort.SliceStable(messages, func(i, j int) bool {
			if messages[i].Timestamp.Equal(*messages[j].Timestamp) {
				return messages[i].ID < messages[j].ID
			}
			return messages[i].Timestamp.Before(*messages[j].Timestamp)
		})
		for i := 0; i+1 < len(messages); i++ {
			out = append(out, Candidate{
				ID1:        messages[i].ID,
				ID2:        messages[i+1].ID,
				Type:       evidence.RelChatSequence,
				Confidence: 1.0,
			})
		}
	}
	return out
}
