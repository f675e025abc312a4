package website

import (
	"strings"
	"testing"

	"github.com/aldro61/PaperAtlas/internal/model"
)

func TestRenderBasicReport(t *testing.T) {
	html, err := Render(Data{
		Conference: "NeurIPS 2025",
		Papers: []model.PaperRecord{
			{Title: "Low Scorer", Authors: "Alice", Score: 60},
			{
				Title:           "Top Paper",
				Authors:         "Bob, Carol",
				Score:           95,
				PDFURL:          "https://arxiv.org/abs/1",
				KeyFindings:     "big findings",
				Description:     "about things",
				KeyContribution: "a contribution",
				Novelty:         "novel indeed",
				AICategories:    []string{"LLMs"},
				Award:           true,
			},
		},
		Authors: []model.AuthorRecord{
			{
				Name:                "Bob",
				PaperCount:          2,
				HighlyRelevantCount: 1,
				AvgScore:            88.5,
				Affiliation:         model.StringPtr("MIT"),
				Role:                model.StringPtr("Professor"),
			},
		},
		Categories:    []string{"LLMs", "Other"},
		SynthesisHTML: "<div id=\"synth\">synthesis body</div>",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(html)

	if !strings.Contains(page, "NeurIPS 2025") {
		t.Error("conference title missing")
	}
	// Papers sort by score descending.
	if strings.Index(page, "Top Paper") > strings.Index(page, "Low Scorer") {
		t.Error("papers not sorted by score")
	}
	for _, want := range []string{"big findings", "novel indeed", "MIT", "Professor", "synthesis body", "badge award"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderEscapesPaperFields(t *testing.T) {
	html, err := Render(Data{
		Conference: "X",
		Papers: []model.PaperRecord{
			{Title: "<script>alert(1)</script>", Authors: "Mallory", Score: 90},
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(html), "<script>alert(1)</script>") {
		t.Error("paper title not escaped")
	}
}

func TestRenderUnknownAuthorDefaults(t *testing.T) {
	html, err := Render(Data{
		Conference: "X",
		Papers:     []model.PaperRecord{{Title: "P", Score: 90}},
		Authors:    []model.AuthorRecord{{Name: "Eve", PaperCount: 1}},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(html), "Unknown") {
		t.Error("unenriched author should display Unknown placeholders")
	}
}
