package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/jsonx"
	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// defaultCategories is the fallback vocabulary when generation fails.
var defaultCategories = []string{
	"Machine Learning",
	"Deep Learning",
	"Natural Language Processing",
	"Computer Vision",
	"Reinforcement Learning",
	"Optimization",
	"Theory",
	"Applications",
	"Other",
}

// GenerateCategories builds the run's fixed classification vocabulary
// from the full title corpus. It is called once per corpus; the result
// is persisted alongside the enriched papers and reused across calls.
// On any failure the fixed default list is returned together with the
// error so the pipeline can proceed and still log what happened.
func GenerateCategories(ctx context.Context, caller llm.Caller, mdl string, papers []model.PaperRecord) ([]string, error) {
	var titles strings.Builder
	for i := range papers {
		fmt.Fprintf(&titles, "%d. %s (score: %.0f)\n", i+1, papers[i].Title, papers[i].Score)
	}

	prompt := fmt.Sprintf(`Analyze these %d paper titles and create high-level research categories that would effectively group them.

Paper titles:

%s
Based on these titles, create research categories that:
- Are clear and distinct
- Cover the major research themes across all papers
- Would be useful for organizing and browsing this collection
- Use standard ML/AI terminology
- Be concise - create a focused set of high-level categories that capture the main themes without being overly granular

The goal is meaningful, high-level groupings. Avoid creating too many categories - aim for broad themes that multiple papers can fit into.

Return ONLY a JSON array of category names, nothing else:
["Category 1", "Category 2", ...]`, len(papers), titles.String())

	text, err := caller.Call(ctx, llm.Request{
		Model:       mdl,
		Prompt:      prompt,
		Temperature: 0.3,
	})
	if err != nil {
		return defaultCategories, fmt.Errorf("generate categories: %w", err)
	}

	var categories []string
	if err := jsonx.DecodeArray(text, &categories); err != nil {
		return defaultCategories, fmt.Errorf("parse categories: %w", err)
	}
	if len(categories) == 0 {
		return defaultCategories, fmt.Errorf("generate categories: empty vocabulary")
	}
	return categories, nil
}

// ReuseCategories decides whether a persisted vocabulary can be reused:
// only when it exists and fewer than half the candidate papers are new.
// A mostly-new corpus deserves a fresh vocabulary.
func ReuseCategories(existing []string, needingEnrichment, total int) bool {
	if len(existing) == 0 || total == 0 {
		return false
	}
	return float64(needingEnrichment) < float64(total)*0.5
}
