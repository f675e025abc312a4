package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/jsonx"
	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// AuthorEnricher looks up one author's affiliation, role, photo, and
// profile link via a web-search-augmented model call.
type AuthorEnricher struct {
	Caller llm.Caller
	Model  string
	Retry  RetryPolicy
}

// Enrich performs the lookup for a private copy of the record and
// returns the updated copy plus the outcome. Any failure degrades to
// Unknown fields with status not_found; no error is ever returned to
// the dispatcher.
func (e *AuthorEnricher) Enrich(ctx context.Context, author model.AuthorRecord) (model.AuthorRecord, model.AuthorOutcome) {
	titles := make([]string, 0, 3)
	for _, p := range author.Papers {
		if len(titles) == 3 {
			break
		}
		titles = append(titles, p.Title)
	}

	text, cause, err := callWithRetry(ctx, e.Caller, llm.Request{
		Model:     e.Model,
		Prompt:    authorPrompt(author.Name, titles),
		WebSearch: true,
	}, e.Retry)

	if err != nil {
		return degradeAuthor(author), model.AuthorOutcome{Kind: model.OutcomeError, Cause: cause}
	}

	var info model.AuthorInfo
	if err := jsonx.DecodeObject(text, &info); err != nil {
		return degradeAuthor(author), model.AuthorOutcome{Kind: model.OutcomeError, Cause: model.CauseMalformed}
	}

	if info.Affiliation == "" {
		info.Affiliation = model.UnknownValue
	}
	if info.Role == "" {
		info.Role = model.UnknownValue
	}

	author.Affiliation = model.StringPtr(info.Affiliation)
	author.Role = model.StringPtr(info.Role)
	author.PhotoURL = info.PhotoURL
	author.ProfileURL = info.ProfileURL

	// The persisted status is a deterministic function of the payload:
	// success only when both required fields resolved.
	if author.Resolved() {
		author.EnrichmentStatus = model.StatusSuccess
		return author, model.AuthorOutcome{Kind: model.OutcomeSuccess, Info: &info}
	}
	author.EnrichmentStatus = model.StatusNotFound
	return author, model.AuthorOutcome{Kind: model.OutcomeNotFound, Info: &info}
}

func degradeAuthor(author model.AuthorRecord) model.AuthorRecord {
	author.Affiliation = model.StringPtr(model.UnknownValue)
	author.Role = model.StringPtr(model.UnknownValue)
	author.PhotoURL = nil
	author.ProfileURL = nil
	author.EnrichmentStatus = model.StatusNotFound
	return author
}

// authorPrompt builds the deterministic lookup prompt: the author name
// plus up to three paper titles for disambiguation, each capped at 100
// characters.
func authorPrompt(name string, titles []string) string {
	var list strings.Builder
	for _, t := range titles {
		if len(t) > 100 {
			t = t[:100]
		}
		fmt.Fprintf(&list, "- %s\n", t)
	}

	return fmt.Sprintf(`Find information about this academic researcher:

Author: %s

Their papers include:
%s
Please search the web to find:
1. Their PRIMARY current affiliation (university or company name ONLY - no departments, labs, or addresses)
2. Their SINGLE most senior role (e.g., PhD Student, Postdoc, Assistant Professor, Associate Professor, Professor, Research Scientist)
3. A professional photo URL (from their university/company webpage, Google Scholar, or research profile)
4. A link to their profile (prioritize: personal webpage > Google Scholar > university profile page)

IMPORTANT FORMATTING RULES:
- affiliation: Use ONLY the institution name. Examples:
  - "Tsinghua University" (NOT "Tsinghua University, Department of Computer Science")
  - "Google DeepMind" (NOT "Google DeepMind, London, UK")
- role: Use ONE concise title. Examples:
  - "Professor" (NOT "Full Professor of Computer Science")
  - "Research Scientist" (NOT "Senior Research Scientist, AI Division")

When you have found the information, return ONLY a JSON object with this exact format:
{"affiliation": "Institution Name", "role": "Role Title", "photo_url": "https://...", "profile_url": "https://..."}

If you cannot find a photo or profile link, set those fields to null. Only use "Unknown" if you genuinely could not find the information after searching.`, name, list.String())
}
