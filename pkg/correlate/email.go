package correlate

import (
	"strings"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

// emailsByMessageID maps each non-empty message id to the record id of the
// email carrying it. Later records win on collision.
func emailsByMessageID(records []evidence.Record) map[string]string {
	byID := make(map[string]string)
	for _, r := range records {
		if r.Type != evidence.TypeEmail || r.Email == nil {
			continue
		}
		if r.Email.MessageID != "" {
			byID[r.Email.MessageID] = r.ID
		}
	}
	return byID
}

// ReplyToLinker connects an email to the message its In-Reply-To header
// names. The parent is the first endpoint.
type ReplyToLinker struct{}

func (l *ReplyToLinker) Name() string { return "reply_to" }

func (l *ReplyToLinker) Link(records []evidence.Record) []Candidate {
	byMessageID := emailsByMessageID(records)

	out := make([]Candidate, 0)
	for _, r := range records {
		if r.Type != evidence.TypeEmail || r.Email == nil || r.Email.InReplyTo == "" {
			continue
		}
		parentID, ok := byMessageID[r.Email.InReplyTo]
		if !ok || parentID == r.ID {
			continue
		}
		out = append(out, Candidate{ID1: parentID, ID2: r.ID, Type: evidence.RelReplyTo, Confidence: 1.0})
	}
	return out
}

// ReferenceLinker connects an email to every resolvable message id in its
// whitespace-separated References header.
type ReferenceLinker struct{}

func (l *ReferenceLinker) Name() string { return "reference" }

func (l *ReferenceLinker) Link(records []evidence.Record) []Candidate {
	byMessageID := emailsByMessageID(records)

	out := make([]Candidate, 0)
	for _, r := range records {
		if r.Type != evidence.TypeEmail || r.Email == nil || r.Email.References == "" {
			continue
		}
		for _, ref := range strings.Fields(r.Email.References) {
			refID, ok := byMessageID[ref]
			if !ok || refID == r.ID {
				continue
			}
			out = append(out, Candidate{ID1: refID, ID2: r.ID, Type: evidence.RelReference, Confidence: 0.9})
		}
	}
	return out
}

// ConversationLinker connects every pair of distinct emails sharing a
// non-empty conversation id. Each unordered pair is emitted once.
type ConversationLinker struct{}

func (l *ConversationLinker) Name() string { return "conversation" }

func (l *ConversationLinker) Link(records []evidence.Record) []Candidate {
	groups := make(map[string][]string)
	order := make([]string, 0)
	for _, r := range records {
		if r.Type != evidence.TypeEmail || r.Email == nil || r.Email.ConversationID == "" {
			continue
		}
		if _, ok := groups[r.Email.ConversationID]; !ok {
			order = append(order, r.Email.ConversationID)
		}
		groups[r.Email.ConversationID] = append(groups[r.Email.ConversationID], r.ID)
	}

	out := make([]Candidate, 0)
	for _, conv := range order {
		ids := groups[conv]
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				out = append(out, Candidate{ID1: ids[i], ID2: ids[j], Type: evidence.RelConversation, Confidence: 0.9})
			}
		}
	}
	return out
}

// SubjectLinker connects emails whose normalized subjects match and whose
// timestamps fall within a week of each other. Confidence decays linearly
// with the day difference, floored at 0.5.
type SubjectLinker struct {
	Threshold float64
}

func (l *SubjectLinker) Name() string { return "subject" }

func (l *SubjectLinker) Link(records []evidence.Record) []Candidate {
	groups := make(map[string][]evidence.Record)
	order := make([]string, 0)
	for _, r := range records {
		if r.Type != evidence.TypeEmail || r.Email == nil || r.Email.Subject == "" {
			continue
		}
		subject := evidence.NormalizeSubject(r.Email.Subject)
		if _, ok := groups[subject]; !ok {
			order = append(order, subject)
		}
		groups[subject] = append(groups[subject], r)
	}

	out := make([]Candidate, 0)
	for _, subject := range order {
		group := groups[subject]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.Timestamp == nil || b.Timestamp == nil {
					continue
				}
				days := a.Timestamp.Sub(*b.Timestamp).Abs().Hours() / 24
				if days > 7 {
					continue
				}
				confidence := 1.0 - days/7
				if confidence < 0.5 {
					confidence = 0.5
				}
				if confidence < l.Threshold {
					continue
				}
				out = append(out, Candidate{ID1: a.ID, ID2: b.ID, Type: evidence.RelSubject, Confidence: confidence})
			}
		}
	}
	return out
}
