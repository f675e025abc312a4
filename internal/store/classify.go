package store

import "github.com/aldro61/PaperAtlas/internal/model"

// Classification describes how far a prior record got through
// enrichment. It drives every skip/retry decision.
type Classification int

const (
	// Missing: never processed, or not present in prior state at all.
	// Dispatched to the worker pool.
	Missing Classification = iota

	// Attempted: processed before but unresolved (Unknown fields).
	// Skipped and logged; never retried in the same run. Clearing the
	// persisted record is the only way to retry.
	Attempted

	// Complete: fully enriched. Reused verbatim.
	Complete
)

func (c Classification) String() string {
	switch c {
	case Complete:
		return "complete"
	case Attempted:
		return "attempted"
	default:
		return "missing"
	}
}

// ClassifyAuthor classifies a prior author record. Complete requires
// all four enrichment fields present and affiliation/role resolved;
// Attempted requires the fields present but at least one Unknown;
// anything else is Missing.
func ClassifyAuthor(a *model.AuthorRecord) Classification {
	if a == nil || !a.Processed() {
		return Missing
	}
	// A record persisted as not_found stays attempted even if its
	// fields would otherwise look resolved: not found is terminal.
	if a.EnrichmentStatus == model.StatusNotFound {
		return Attempted
	}
	if a.Resolved() {
		return Complete
	}
	return Attempted
}

// ClassifyPaper classifies a prior enriched paper against the paper's
// current source URL. URL drift invalidates the cached enrichment: a
// different URL likely means different underlying content, so the paper
// re-enters the missing partition. Papers have no attempted state;
// failed paper enrichments are recorded with empty fields and retried
// on the next run.
func ClassifyPaper(prior *model.PaperRecord, currentPDFURL string) Classification {
	if prior == nil || !prior.Enriched() {
		return Missing
	}
	if prior.PDFURL != currentPDFURL {
		return Missing
	}
	return Complete
}
