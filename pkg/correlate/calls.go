package correlate

import (
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

// CallFollowedByLinker connects a phone call to emails and SMS messages
// sent within 30 minutes after it. Confidence decays linearly with the
// delay; the call is always the first endpoint.
type CallFollowedByLinker struct {
	Threshold float64
}

func (l *CallFollowedByLinker) Name() string { return "call_followed_by" }

func (l *CallFollowedByLinker) Link(records []evidence.Record) []Candidate {
	out := make([]Candidate, 0)
	for _, call := range records {
		if call.Type != evidence.TypePhoneCall || call.Timestamp == nil {
			continue
		}
		for _, other := range records {
			if other.Type != evidence.TypeEmail && other.Type != evidence.TypeSMS {
				continue
			}
			if other.Timestamp == nil || !call.Timestamp.Before(*other.Timestamp) {
				continue
			}
			minutes := other.Timestamp.Sub(*call.Timestamp).Minutes()
			if minutes > 30 {
				continue
			}
			confidence := 1.0 - minutes/30
			if confidence < l.Threshold {
				continue
			}
			out = append(out, Candidate{
				ID1:        call.ID,
				ID2:        other.ID,
				Type:       evidence.RelCallFollowedBy,
				Confidence: confidence,
			})
		}
	}
	return out
}
