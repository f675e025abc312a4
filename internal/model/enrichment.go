package model

// OutcomeKind tags the result of a single enrichment attempt.
type OutcomeKind int

const (
	// OutcomeSuccess means the external call returned a valid payload.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNotFound means the call succeeded but the information could
	// not be resolved. Terminal for authors: never retried automatically.
	OutcomeNotFound
	// OutcomeError means the call failed (transport, timeout, or
	// unparseable response). Degrades to a not_found record.
	OutcomeError
)

// FailureCause classifies why an enrichment attempt failed.
type FailureCause string

const (
	CauseTimeout   FailureCause = "timeout"
	CauseTransport FailureCause = "transport_failure"
	CauseMalformed FailureCause = "malformed_response"
)

// AuthorInfo is the payload of a successful author lookup.
type AuthorInfo struct {
	Affiliation string  `json:"affiliation"`
	Role        string  `json:"role"`
	PhotoURL    *string `json:"photo_url"`
	ProfileURL  *string `json:"profile_url"`
}

// PaperInsights is the payload of a successful paper analysis.
type PaperInsights struct {
	KeyFindings     string   `json:"key_findings"`
	Description     string   `json:"description"`
	KeyContribution string   `json:"key_contribution"`
	Novelty         string   `json:"novelty"`
	Categories      []string `json:"categories"`
}

// AuthorOutcome is the tagged result of one author enrichment.
type AuthorOutcome struct {
	Kind  OutcomeKind
	Info  *AuthorInfo // set when Kind == OutcomeSuccess
	Cause FailureCause
}

// PaperOutcome is the tagged result of one paper enrichment.
type PaperOutcome struct {
	Kind     OutcomeKind
	Insights *PaperInsights // set when Kind == OutcomeSuccess
	Cause    FailureCause
}
