package model

import "strings"

// PaperRecord represents a single conference paper collected from the
// recommendation service, optionally augmented by enrichment.
type PaperRecord struct {
	PaperID      string  `json:"paper_id"`
	Title        string  `json:"title"`
	Authors      string  `json:"authors"` // raw comma-separated author string
	PDFURL       string  `json:"pdf_url,omitempty"`
	SessionID    string  `json:"session_id,omitempty"`
	SessionName  string  `json:"session_name,omitempty"`
	PosterID     string  `json:"poster_id,omitempty"`
	PosterNumber string  `json:"poster_number,omitempty"`
	Tag          string  `json:"tag,omitempty"`
	Score        float64 `json:"relevance_score"` // 0-100 after cleaning

	Award      bool `json:"award"`
	Bookmarked bool `json:"bookmarked"`
	Liked      bool `json:"liked"`
	Disliked   bool `json:"disliked"`
	Pinned     bool `json:"pinned"`

	// Enrichment fields. Once a paper has been processed these are always
	// present in the persisted document, even if empty.
	KeyFindings     string   `json:"key_findings"`
	Description     string   `json:"description"`
	KeyContribution string   `json:"key_contribution"`
	Novelty         string   `json:"novelty"`
	AICategories    []string `json:"ai_categories"`
}

// TitleKey returns the deduplication key for the paper: trimmed,
// case-insensitive title. First occurrence wins.
func (p *PaperRecord) TitleKey() string {
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// Enriched reports whether all enrichment fields carry content.
// Matches the completeness check used by the record store.
func (p *PaperRecord) Enriched() bool {
	return p.KeyFindings != "" &&
		p.Description != "" &&
		p.KeyContribution != "" &&
		p.Novelty != "" &&
		len(p.AICategories) > 0
}

// truthyStrings is the fixed set of strings that deserialize to true.
// Persisted files must round-trip booleans through this set.
var truthyStrings = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
}

// ParseBool converts a persisted boolean field to a bool.
func ParseBool(s string) bool {
	return truthyStrings[strings.ToLower(strings.TrimSpace(s))]
}

// FormatBool converts a bool to its persisted representation.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
