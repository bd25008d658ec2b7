package evidence

import "time"

// Project is a persisted grouping of evidence records, created when a
// reviewer accepts a suggestion (or builds one by hand).
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start_date,omitempty"`
	End         *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// ProjectSuggestion is an advisory grouping of evidence sharing a theme or
// thread. Suggestions are recomputed on every call and never persisted by
// this core.
type ProjectSuggestion struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Start       *time.Time `json:"start_date,omitempty"`
	End         *time.Time `json:"end_date,omitempty"`
	EvidenceIDs []string   `json:"evidence_ids"`
}

// Upload records a raw source file handed to the external ingestion
// pipeline. RecordCount is filled in by the ingester once parsed.
type Upload struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileKey     string    `json:"file_key,omitempty"`
	RecordCount int       `json:"record_count,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at,omitempty"`
}
