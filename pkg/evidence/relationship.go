package evidence

import "time"

// RelationshipType classifies how two evidence records are connected.
type RelationshipType string

const (
	RelReplyTo         RelationshipType = "reply_to"
	RelReference       RelationshipType = "reference"
	RelConversation    RelationshipType = "conversation"
	RelSubject         RelationshipType = "subject"
	RelChatSequence    RelationshipType = "chat_sequence"
	RelCallFollowedBy  RelationshipType = "call_followed_by"
	RelRelatedToDocket RelationshipType = "related_to_docket"
)

// Edge is a typed, confidence-scored link between two evidence records.
// Edges are stored as an ordered pair but are logically undirected: lookups
// resolve regardless of which endpoint is queried. Duplicate edges between
// the same pair, even of the same type, are permitted: correlation passes
// are additive and never deduplicate by default.
type Edge struct {
	ID          string           `json:"id"`
	EvidenceID1 string           `json:"evidence_id_1"`
	EvidenceID2 string           `json:"evidence_id_2"`
	Type        RelationshipType `json:"relationship_type"`
	Confidence  float64          `json:"confidence"`
	CreatedAt   time.Time        `json:"created_at,omitempty"`
}

// PairKey returns an endpoint-order-insensitive key for the edge's pair and
// type, used by the optional dedupe mode.
func (e Edge) PairKey() string {
	a, b := e.EvidenceID1, e.EvidenceID2
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b + "\x00" + string(e.Type)
}
