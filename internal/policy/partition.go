// Package policy decides, for each candidate record, whether it needs
// an expensive enrichment call. It is a pure function over the candidate
// set and the loaded prior state; it performs no I/O.
package policy

import (
	"github.com/aldro61/PaperAtlas/internal/model"
	"github.com/aldro61/PaperAtlas/internal/store"
)

// AuthorPartition is a disjoint three-way split of the author candidate
// set. Every candidate lands in exactly one slice.
type AuthorPartition struct {
	// AlreadyEnriched: complete prior enrichments, reused verbatim.
	AlreadyEnriched []model.AuthorRecord
	// PreviouslyAttempted: attempted before but unresolved. Skipped and
	// logged; an explicit clear of the persisted record is the only way
	// back into the pool.
	PreviouslyAttempted []model.AuthorRecord
	// NeedsEnrichment: dispatched to the worker pool.
	NeedsEnrichment []model.AuthorRecord
}

// AuthorCandidates filters the aggregated author stats to enrichment
// candidates: only authors with at least one highly relevant paper are
// worth an external lookup.
func AuthorCandidates(stats []model.AuthorRecord) []model.AuthorRecord {
	candidates := make([]model.AuthorRecord, 0, len(stats))
	for _, a := range stats {
		if a.HighlyRelevantCount >= 1 {
			candidates = append(candidates, a)
		}
	}
	return candidates
}

// PartitionAuthors splits candidates against prior state. Reused and
// skipped entries carry the current run's aggregate stats with the
// prior run's enrichment fields merged in, so counts stay fresh while
// lookups are not repeated.
func PartitionAuthors(candidates, prior []model.AuthorRecord) AuthorPartition {
	byName := make(map[string]*model.AuthorRecord, len(prior))
	for i := range prior {
		byName[prior[i].Name] = &prior[i]
	}

	var part AuthorPartition
	for _, candidate := range candidates {
		existing := byName[candidate.Name]
		switch store.ClassifyAuthor(existing) {
		case store.Complete:
			part.AlreadyEnriched = append(part.AlreadyEnriched, withPriorEnrichment(candidate, existing))
		case store.Attempted:
			part.PreviouslyAttempted = append(part.PreviouslyAttempted, withPriorEnrichment(candidate, existing))
		default:
			part.NeedsEnrichment = append(part.NeedsEnrichment, candidate)
		}
	}
	return part
}

func withPriorEnrichment(candidate model.AuthorRecord, prior *model.AuthorRecord) model.AuthorRecord {
	candidate.Affiliation = prior.Affiliation
	candidate.Role = prior.Role
	candidate.PhotoURL = prior.PhotoURL
	candidate.ProfileURL = prior.ProfileURL
	candidate.EnrichmentStatus = prior.EnrichmentStatus
	if candidate.EnrichmentStatus == "" {
		if candidate.Resolved() {
			candidate.EnrichmentStatus = model.StatusSuccess
		} else {
			candidate.EnrichmentStatus = model.StatusNotFound
		}
	}
	return candidate
}

// PaperPartition splits the cleaned papers against prior enriched
// state. Papers have no attempted partition: a failed paper enrichment
// is persisted with empty fields and retried next run.
type PaperPartition struct {
	AlreadyEnriched []model.PaperRecord
	NeedsEnrichment []model.PaperRecord
}

// PartitionPapers keys prior enrichments by normalized title and
// re-enriches on URL drift or incomplete prior fields.
func PartitionPapers(cleaned, prior []model.PaperRecord) PaperPartition {
	byTitle := make(map[string]*model.PaperRecord, len(prior))
	for i := range prior {
		byTitle[prior[i].TitleKey()] = &prior[i]
	}

	var part PaperPartition
	for _, paper := range cleaned {
		existing := byTitle[paper.TitleKey()]
		if store.ClassifyPaper(existing, paper.PDFURL) == store.Complete {
			merged := paper
			merged.KeyFindings = existing.KeyFindings
			merged.Description = existing.Description
			merged.KeyContribution = existing.KeyContribution
			merged.Novelty = existing.Novelty
			merged.AICategories = existing.AICategories
			part.AlreadyEnriched = append(part.AlreadyEnriched, merged)
		} else {
			part.NeedsEnrichment = append(part.NeedsEnrichment, paper)
		}
	}
	return part
}
