package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Stem builds a filesystem-friendly stem like "neurips2025" from a
// conference label: everything left of the first dash, lowercased,
// non-alphanumerics removed.
func Stem(conferenceName string) string {
	if conferenceName == "" {
		return "conference"
	}

	normalized := strings.NewReplacer("–", "-", "—", "-").Replace(conferenceName)
	left, _, _ := strings.Cut(normalized, "-")

	var b strings.Builder
	for _, ch := range strings.ToLower(strings.TrimSpace(left)) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		}
	}
	if b.Len() == 0 {
		return "conference"
	}
	return b.String()
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ModelSlug returns a safe slug for a model ID to embed in filenames,
// e.g. "google/gemini-2.5-flash" becomes "google-gemini-2-5-flash".
func ModelSlug(modelID string) string {
	if modelID == "" {
		return "model"
	}
	slug := strings.ToLower(strings.Trim(nonAlnum.ReplaceAllString(modelID, "-"), "-"))
	if slug == "" {
		return "model"
	}
	return slug
}

// OutputFiles names every persisted artifact of a run. Enriched papers
// and synthesis carry the model slug so switching models never
// silently reuses another model's output.
type OutputFiles struct {
	Stem           string
	Papers         string
	Authors        string
	EnrichedPapers string
	Synthesis      string
	Website        string
}

// BuildOutputFiles derives the artifact paths for a conference within
// dir.
func BuildOutputFiles(dir, conferenceName, paperModel, synthesisModel string) OutputFiles {
	stem := Stem(conferenceName)
	join := func(name string) string { return filepath.Join(dir, name) }
	return OutputFiles{
		Stem:           stem,
		Papers:         join(stem + "_papers.csv"),
		Authors:        join(stem + "_enriched_authors.json"),
		EnrichedPapers: join(stem + "_enriched_papers_" + ModelSlug(paperModel) + ".json"),
		Synthesis:      join(stem + "_synthesis_" + ModelSlug(synthesisModel) + ".html"),
		Website:        join(stem + "_website.html"),
	}
}
