package synth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

type stubCaller struct {
	response string
	err      error
	prompt   string
}

func (s *stubCaller) Call(_ context.Context, req llm.Request) (string, error) {
	s.prompt = req.Prompt
	return s.response, s.err
}

func enrichedPaper(title string, score float64) model.PaperRecord {
	return model.PaperRecord{
		Title:           title,
		Score:           score,
		PDFURL:          "https://arxiv.org/abs/x",
		KeyFindings:     "findings",
		Description:     "description",
		KeyContribution: "contribution",
		Novelty:         "novelty",
		AICategories:    []string{"Deep Learning"},
	}
}

func TestGenerateHTMLFiltersUnenriched(t *testing.T) {
	caller := &stubCaller{response: "## Title\n\nSee [Paper 1]."}
	g := &Generator{Caller: caller, Model: "m"}

	papers := []model.PaperRecord{
		enrichedPaper("Enriched", 90),
		{Title: "Not enriched", Score: 80},
	}
	html, err := g.GenerateHTML(context.Background(), "NeurIPS 2025", papers)
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	if !strings.Contains(caller.prompt, "analyzing 1 research papers") {
		t.Errorf("unenriched paper leaked into prompt")
	}
	if !strings.Contains(caller.prompt, "NeurIPS 2025") {
		t.Error("conference label missing from prompt")
	}
	if !strings.Contains(html, "Paper Reference Index (1 papers)") {
		t.Errorf("reference index missing: %s", html)
	}
}

func TestGenerateHTMLNoEligiblePapers(t *testing.T) {
	g := &Generator{Caller: &stubCaller{}, Model: "m"}
	if _, err := g.GenerateHTML(context.Background(), "X", []model.PaperRecord{{Title: "bare"}}); err == nil {
		t.Error("expected error with no enriched papers")
	}
}

func TestGenerateHTMLPropagatesCallError(t *testing.T) {
	g := &Generator{Caller: &stubCaller{err: errors.New("quota")}, Model: "m"}
	if _, err := g.GenerateHTML(context.Background(), "X", []model.PaperRecord{enrichedPaper("A", 90)}); err == nil {
		t.Error("expected error from failed call")
	}
}

func testIndex() []IndexEntry {
	return []IndexEntry{
		{Number: 1, Title: `A "Quoted" Title`, Score: 91.5, Categories: []string{"LLMs"}, PDFURL: "https://arxiv.org/abs/1"},
		{Number: 2, Title: "Second", Score: 80, Categories: []string{"Other"}},
		{Number: 3, Title: "Third", Score: 70},
	}
}

func TestMarkdownToHTMLHeadersAndEmphasis(t *testing.T) {
	got := MarkdownToHTML("# Top\n\n## Section\n\nSome **bold** and *subtle* text.", nil)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "<h2") {
		t.Errorf("headers not converted: %s", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") || !strings.Contains(got, "<em>subtle</em>") {
		t.Errorf("emphasis not converted: %s", got)
	}
	if !strings.Contains(got, "<p>Some") {
		t.Errorf("paragraph not wrapped: %s", got)
	}
}

func TestMarkdownToHTMLSingleReference(t *testing.T) {
	got := MarkdownToHTML("Shown in [Paper 1].", testIndex())
	if !strings.Contains(got, `data-paper-id="1"`) {
		t.Errorf("reference not linked: %s", got)
	}
	if !strings.Contains(got, "&quot;Quoted&quot;") {
		t.Errorf("title not escaped for attribute: %s", got)
	}
	if !strings.Contains(got, `href="https://arxiv.org/abs/1"`) {
		t.Errorf("pdf link missing: %s", got)
	}
}

func TestMarkdownToHTMLMultiReferenceForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"repeated prefix", "[Paper 1, Paper 2, Paper 3]"},
		{"mixed", "[Paper 1, 2, 3]"},
		{"plural", "[Papers 1, 2, 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToHTML(tt.in, testIndex())
			for _, id := range []string{`data-paper-id="1"`, `data-paper-id="2"`, `data-paper-id="3"`} {
				if !strings.Contains(got, id) {
					t.Errorf("missing %s in %s", id, got)
				}
			}
		})
	}
}

func TestMarkdownToHTMLUnknownReference(t *testing.T) {
	got := MarkdownToHTML("See [Paper 99].", testIndex())
	if !strings.Contains(got, "paper-ref-missing") {
		t.Errorf("unknown reference should render as missing span: %s", got)
	}
}

func TestMarkdownToHTMLEmpty(t *testing.T) {
	if got := MarkdownToHTML("", testIndex()); got != "" {
		t.Errorf("MarkdownToHTML(\"\") = %q", got)
	}
}
