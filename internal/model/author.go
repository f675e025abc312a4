package model

// Enrichment status tags persisted with each processed author.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
)

// UnknownValue marks an enrichment field the external lookup could not
// resolve. An author with an Unknown affiliation or role counts as
// attempted-but-unresolved, not complete.
const UnknownValue = "Unknown"

// AuthorPaperRef is one paper attributed to an author, carried inside
// the author record for prompt context and reporting.
type AuthorPaperRef struct {
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Session  string  `json:"session,omitempty"`
	PDFURL   string  `json:"pdf_url,omitempty"`
	Relevant int     `json:"relevant"`
}

// AuthorRecord aggregates one author's papers plus enrichment fields.
// Records are keyed by name; workers receive copies, never the shared
// collection.
type AuthorRecord struct {
	Name                string           `json:"name"`
	PaperCount          int              `json:"paper_count"`
	HighlyRelevantCount int              `json:"highly_relevant_count"`
	AvgScore            float64          `json:"avg_score"`
	MaxScore            float64          `json:"max_score"`
	TotalRelevant       int              `json:"total_relevant"`
	Papers              []AuthorPaperRef `json:"papers"`

	// Enrichment fields. Present (possibly null/"Unknown") once the
	// author has been processed, so classification is decidable from
	// the persisted file alone.
	Affiliation      *string `json:"affiliation,omitempty"`
	Role             *string `json:"role,omitempty"`
	PhotoURL         *string `json:"photo_url"`
	ProfileURL       *string `json:"profile_url"`
	EnrichmentStatus string  `json:"enrichment_status,omitempty"`
}

// Processed reports whether the author has been through an enrichment
// attempt: all four enrichment fields carry values (nullable photo and
// profile URLs count as carried once the keys exist).
func (a *AuthorRecord) Processed() bool {
	return a.Affiliation != nil && a.Role != nil
}

// Resolved reports whether the enrichment actually found the author:
// affiliation and role are present and not "Unknown".
func (a *AuthorRecord) Resolved() bool {
	return a.Affiliation != nil && *a.Affiliation != "" && *a.Affiliation != UnknownValue &&
		a.Role != nil && *a.Role != "" && *a.Role != UnknownValue
}

// StringPtr returns a pointer to s. Convenience for the nullable
// enrichment fields.
func StringPtr(s string) *string {
	return &s
}
