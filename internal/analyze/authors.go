// Package analyze builds author statistics from cleaned paper records.
package analyze

import (
	"math"
	"sort"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// ParseAuthors splits a raw comma-separated author string into cleaned
// individual names. Truncation markers ("...", "et al") and trailing
// dots are dropped.
func ParseAuthors(raw string) []string {
	if raw == "" {
		return nil
	}

	var cleaned []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "..." || name == "et al" || name == "et al." {
			continue
		}
		name = strings.TrimRight(name, ".")
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}

// Options controls author aggregation.
type Options struct {
	// FirstLastOnly keeps only the first, second, and last author of
	// papers with more than three authors. Middle authors of long
	// author lists rarely drive the work.
	FirstLastOnly bool

	// HighlyRelevantThreshold is the score at or above which a paper
	// counts toward an author's highly-relevant total.
	HighlyRelevantThreshold float64
}

// Authors aggregates per-author statistics over the paper set. The
// result is sorted by (highly relevant count, paper count) descending
// so callers see the strongest candidates first.
func Authors(papers []model.PaperRecord, opts Options) []model.AuthorRecord {
	type agg struct {
		papers   []model.AuthorPaperRef
		scores   []float64
		relevant int
	}

	byName := make(map[string]*agg)
	var order []string // insertion order keeps aggregation deterministic pre-sort

	for i := range papers {
		paper := &papers[i]
		names := ParseAuthors(paper.Authors)
		if opts.FirstLastOnly && len(names) > 3 {
			names = []string{names[0], names[1], names[len(names)-1]}
		}

		relevant := 0
		if paper.Liked {
			relevant = 1
		}

		for _, name := range names {
			a, ok := byName[name]
			if !ok {
				a = &agg{}
				byName[name] = a
				order = append(order, name)
			}
			a.papers = append(a.papers, model.AuthorPaperRef{
				Title:    paper.Title,
				Score:    paper.Score,
				Session:  paper.SessionName,
				PDFURL:   paper.PDFURL,
				Relevant: relevant,
			})
			a.scores = append(a.scores, paper.Score)
			a.relevant += relevant
		}
	}

	records := make([]model.AuthorRecord, 0, len(order))
	for _, name := range order {
		a := byName[name]

		var sum, max float64
		highlyRelevant := 0
		for _, s := range a.scores {
			sum += s
			if s > max {
				max = s
			}
			if s >= opts.HighlyRelevantThreshold {
				highlyRelevant++
			}
		}
		avg := math.Round(sum/float64(len(a.scores))*10) / 10

		records = append(records, model.AuthorRecord{
			Name:                name,
			PaperCount:          len(a.papers),
			HighlyRelevantCount: highlyRelevant,
			AvgScore:            avg,
			MaxScore:            max,
			TotalRelevant:       a.relevant,
			Papers:              a.papers,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].HighlyRelevantCount != records[j].HighlyRelevantCount {
			return records[i].HighlyRelevantCount > records[j].HighlyRelevantCount
		}
		return records[i].PaperCount > records[j].PaperCount
	})

	return records
}
