package evidence

import "time"

// Type identifies the kind of activity an evidence record captures.
type Type string

const (
	TypeEmail     Type = "email"
	TypeSMS       Type = "sms"
	TypeDocket    Type = "docket"
	TypePhoneCall Type = "phone_call"
)

// Record is a normalized unit of case activity. Exactly one of the
// type-specific field structs is set, matching Type; heuristics switch on
// Type instead of probing the raw payload.
//
// Records are created by the external ingestion pipeline and are immutable
// here, except for contact enrichment and the bulk case-clear operation.
// Timestamp is optional: a record without one is excluded from every
// timestamp-dependent heuristic but still stored and queryable.
type Record struct {
	ID        string     `json:"id"`
	Type      Type       `json:"type"`
	Timestamp *time.Time `json:"timestamp,omitempty"`

	Email     *EmailFields     `json:"email,omitempty"`
	SMS       *SMSFields       `json:"sms,omitempty"`
	Docket    *DocketFields    `json:"docket,omitempty"`
	PhoneCall *PhoneCallFields `json:"phone_call,omitempty"`

	// Contact enrichment, applied after ingestion by reviewers.
	Contact      string `json:"contact,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`

	// Raw carries the original source fields as delivered by the ingester.
	Raw map[string]any `json:"raw_data,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// EmailFields holds the email-specific portion of a record.
type EmailFields struct {
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	From            string `json:"from"`
	To              string `json:"to"`
	MessageID       string `json:"message_id,omitempty"`
	InReplyTo       string `json:"in_reply_to,omitempty"`
	References      string `json:"references,omitempty"`
	ConversationID  string `json:"conversation_id,omitempty"`
	IsResponse      bool   `json:"is_response,omitempty"`
	HasAttachment   bool   `json:"has_attachment,omitempty"`
	AttachmentNames string `json:"attachment_names,omitempty"`
}

// SMSFields holds the SMS-specific portion of a record.
type SMSFields struct {
	Text           string `json:"text"`
	ChatSession    string `json:"chat_session,omitempty"`
	Direction      string `json:"direction,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	HasAttachment  bool   `json:"has_attachment,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	DeliveredDate  string `json:"delivered_date,omitempty"`
	ReadDate       string `json:"read_date,omitempty"`
}

// DocketFields holds the docket-event-specific portion of a record.
type DocketFields struct {
	EventType string `json:"event_type"`
	Memo      string `json:"memo,omitempty"`
	FiledBy   string `json:"filed_by,omitempty"`
}

// PhoneCallFields holds the phone-call-specific portion of a record.
type PhoneCallFields struct {
	CallType        string `json:"call_type,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	Number          string `json:"number,omitempty"`
	Contact         string `json:"contact,omitempty"`
	Service         string `json:"service,omitempty"`
}

// Clone returns a deep copy of the record. Store implementations hand out
// clones so callers cannot mutate stored state through query results.
func (r Record) Clone() Record {
	out := r
	if r.Timestamp != nil {
		ts := *r.Timestamp
		out.Timestamp = &ts
	}
	if r.Email != nil {
		e := *r.Email
		out.Email = &e
	}
	if r.SMS != nil {
		s := *r.SMS
		out.SMS = &s
	}
	if r.Docket != nil {
		d := *r.Docket
		out.Docket = &d
	}
	if r.PhoneCall != nil {
		p := *r.PhoneCall
		out.PhoneCall = &p
	}
	if r.Raw != nil {
		raw := make(map[string]any, len(r.Raw))
		for k, v := range r.Raw {
			raw[k] = v
		}
		out.Raw = raw
	}
	return out
}

// Filter narrows an evidence query. A zero filter matches everything.
// Start and End are inclusive; setting only one side yields an open
// inequality.
type Filter struct {
	Type  Type
	Start *time.Time
	End   *time.Time
}

// Matches reports whether the record passes the filter.
func (f Filter) Matches(r Record) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Start != nil {
		if r.Timestamp == nil || r.Timestamp.Before(*f.Start) {
			return false
		}
	}
	if f.End != nil {
		if r.Timestamp == nil || r.Timestamp.After(*f.End) {
			return false
		}
	}
	return true
}
