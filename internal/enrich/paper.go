package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/jsonx"
	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// DocumentFetcher retrieves the text of a paper's landing page. An
// empty result (or an error) simply routes the prompt through web
// search instead.
type DocumentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// PaperEnricher analyzes one paper: key findings, description,
// contribution, novelty, and 1-3 categories from the shared vocabulary.
type PaperEnricher struct {
	Caller  llm.Caller
	Model   string
	Retry   RetryPolicy
	Fetcher DocumentFetcher // optional

	// MaxDocumentChars caps fetched document text included in the
	// prompt; longer documents are trimmed and the prompt says so.
	MaxDocumentChars int
}

// Enrich analyzes a private copy of the paper against the shared
// category vocabulary. All failures degrade to empty enrichment fields;
// no error escapes to the dispatcher.
func (e *PaperEnricher) Enrich(ctx context.Context, paper model.PaperRecord, categories []string) (model.PaperRecord, model.PaperOutcome) {
	var docText string
	var trimmed bool
	if e.Fetcher != nil && paper.PDFURL != "" {
		text, err := e.Fetcher.FetchText(ctx, paper.PDFURL)
		if err == nil {
			docText = text
			if max := e.MaxDocumentChars; max > 0 && len(docText) > max {
				docText = docText[:max]
				trimmed = true
			}
		}
	}

	text, cause, err := callWithRetry(ctx, e.Caller, llm.Request{
		Model:       e.Model,
		Prompt:      paperPrompt(&paper, categories, docText, trimmed),
		Temperature: 0.3,
		WebSearch:   docText == "", // no document, let the model search
	}, e.Retry)

	if err != nil {
		return degradePaper(paper), model.PaperOutcome{Kind: model.OutcomeError, Cause: cause}
	}

	var insights model.PaperInsights
	if err := jsonx.DecodeObject(text, &insights); err != nil {
		return degradePaper(paper), model.PaperOutcome{Kind: model.OutcomeError, Cause: model.CauseMalformed}
	}

	paper.KeyFindings = insights.KeyFindings
	paper.Description = insights.Description
	paper.KeyContribution = insights.KeyContribution
	paper.Novelty = insights.Novelty
	paper.AICategories = insights.Categories
	if paper.AICategories == nil {
		paper.AICategories = []string{}
	}

	if paper.Enriched() {
		return paper, model.PaperOutcome{Kind: model.OutcomeSuccess, Insights: &insights}
	}
	return paper, model.PaperOutcome{Kind: model.OutcomeNotFound, Insights: &insights}
}

func degradePaper(paper model.PaperRecord) model.PaperRecord {
	paper.KeyFindings = ""
	paper.Description = ""
	paper.KeyContribution = ""
	paper.Novelty = ""
	paper.AICategories = []string{}
	return paper
}

func paperPrompt(paper *model.PaperRecord, categories []string, docText string, trimmed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this research paper and extract key insights.\n\n")
	fmt.Fprintf(&b, "Paper Title: %q\n", paper.Title)
	if paper.Score > 0 {
		fmt.Fprintf(&b, "Relevance Score: %.0f\n", paper.Score)
	}
	fmt.Fprintf(&b, "\nAvailable Categories for Classification: %s\n", strings.Join(categories, ", "))

	if docText != "" {
		if trimmed {
			b.WriteString("\n[NOTE: Document content was trimmed due to length. Analysis based on available text.]\n")
		}
		fmt.Fprintf(&b, "\nPAPER CONTENT:\n%s\n\nBased on the paper content above, extract:\n", docText)
	} else {
		b.WriteString(`
IMPORTANT: The paper content could not be fetched directly. You MUST use web search to find this paper before providing any analysis. Do NOT attempt to answer based solely on the title.

After searching, based on what you find (abstract, paper content, reviews, etc.), extract:
`)
	}

	b.WriteString(`1. KEY FINDINGS: What is new? What is important? What does this paper bring to the field? (2-3 sentences)
2. DESCRIPTION: What the paper is about - summarize the main focus and approach (2-3 sentences)
3. KEY CONTRIBUTION: The main contribution or innovation (1-2 sentences)
4. NOVELTY: How is this work different from previous work? What existing limitations does it address? What new approach does it take? (2-3 sentences)
5. CATEGORIES: Assign 1-3 relevant categories from the available list above - be selective

Return ONLY a valid JSON object with this exact format:
{"key_findings": "...", "description": "...", "key_contribution": "...", "novelty": "...", "categories": ["Category1", "Category2"]}`)

	return b.String()
}
