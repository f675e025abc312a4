// Package synth generates the cross-paper conference synthesis: one
// long model call over every enriched paper's insights, rendered to
// HTML with tooltip-ready paper references and a reference index.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// IndexEntry describes one paper as cited in the synthesis.
type IndexEntry struct {
	Number     int
	Title      string
	Score      float64
	Categories []string
	PDFURL     string
}

// Generator produces the synthesis document.
type Generator struct {
	Caller llm.Caller
	Model  string
}

// GenerateHTML synthesizes the enriched papers into a styled HTML
// fragment. Papers without key findings and novelty are excluded; an
// empty eligible set is an error.
func (g *Generator) GenerateHTML(ctx context.Context, conference string, papers []model.PaperRecord) (string, error) {
	enriched := make([]model.PaperRecord, 0, len(papers))
	for _, p := range papers {
		if p.KeyFindings != "" && p.Novelty != "" {
			enriched = append(enriched, p)
		}
	}
	if len(enriched) == 0 {
		return "", fmt.Errorf("no enriched papers to synthesize")
	}

	index := make([]IndexEntry, len(enriched))
	categorySet := make(map[string]bool)
	for i, p := range enriched {
		index[i] = IndexEntry{
			Number:     i + 1,
			Title:      p.Title,
			Score:      p.Score,
			Categories: p.AICategories,
			PDFURL:     p.PDFURL,
		}
		for _, c := range p.AICategories {
			categorySet[c] = true
		}
	}
	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}

	if conference == "" {
		conference = "this conference"
	}

	text, err := g.Caller.Call(ctx, llm.Request{
		Model:       g.Model,
		Prompt:      synthesisPrompt(conference, enriched, categories),
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("generate synthesis: %w", err)
	}

	body := MarkdownToHTML(text, index)
	return wrapDocument(body, index, len(categories)), nil
}

func synthesisPrompt(conference string, enriched []model.PaperRecord, categories []string) string {
	var summaries strings.Builder
	for i, p := range enriched {
		fmt.Fprintf(&summaries, `
Paper %d: %s
Score: %.2f (relevance to your research)
Categories: %s
Novelty: %s
Key Contribution: %s
Key Findings: %s
`, i+1, p.Title, p.Score, strings.Join(p.AICategories, ", "), p.Novelty, p.KeyContribution, p.KeyFindings)
	}

	divider := strings.Repeat("=", 80)
	return fmt.Sprintf(`You are analyzing %d research papers presented at %s across these categories: %s.

Here are all the papers with their key insights:

%s
%s
%s

Please write a COMPREHENSIVE, critical synthesis of what someone should have learned at %s. Your synthesis should:

1. **Identify Major Trends**: What are the 3-5 dominant research directions? How are they connected? Reference MULTIPLE papers for each trend to show evidence.

2. **Highlight Surprising/Novel Findings**: What results were unexpected? What challenges existing assumptions? Cite specific examples.

3. **Make Connections**: Which papers complement each other? Which papers are in tension? What gaps exist? Draw connections across MANY papers.

4. **Assess Impact**: What work will likely be most influential? What represents genuine progress vs incremental work? Reference numerous examples.

5. **Critical Analysis**: Where is the field going? What problems remain unsolved? What approaches are overhyped? Be specific with citations.

6. **Practical Takeaways**: What should practitioners actually do with this research? Ground recommendations in specific papers.

**CRITICAL INSTRUCTIONS:**
- You MUST reference a LARGE number of papers throughout the synthesis (aim for 50-100+ paper citations)
- Use paper citations liberally: [Paper 5], [Paper 23], etc.
- Every claim should be supported by paper references
- Cover papers across ALL the major categories, not just a few
- When discussing a trend or finding, cite MULTIPLE supporting papers, not just one
- Make the synthesis LONGER and more detailed - aim for 2000-3000 words minimum
- Be comprehensive - you have %d papers to work with, use them!

Format your response as a well-structured synthesis with clear sections using markdown headers (##). Start with a strong title that mentions %s, followed by a concise executive summary (5-7 bullet points or short paragraphs) before the deep dive. Be critical and insightful - this should read like an expert's comprehensive analysis of the entire conference, not a surface-level summary of a few papers.

Focus on synthesizing insights across papers rather than listing individual papers, but REFERENCE MANY PAPERS to support your synthesis. Make bold claims when the evidence supports them.`,
		len(enriched), conference, strings.Join(categories, ", "),
		divider, summaries.String(), divider,
		conference, len(enriched), conference)
}

// wrapDocument surrounds the synthesis body with the page chrome and
// the collapsible reference index.
func wrapDocument(body string, index []IndexEntry, categoryCount int) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.8; color: #2c3e50;">` + "\n")
	b.WriteString(`<div style="text-align: center; margin-bottom: 30px; padding: 30px; background: linear-gradient(135deg, #1c3664 0%, #0a1f44 100%); color: white; border-radius: 8px;">` + "\n")
	b.WriteString(`<h1 style="margin: 0; color: white; font-weight: 600;">Research Synthesis</h1>` + "\n")
	fmt.Fprintf(&b, `<p style="margin: 10px 0 0 0; color: #b8c5d6;">Analysis of %d papers across %d research areas</p>`+"\n", len(index), categoryCount)
	b.WriteString("</div>\n")
	b.WriteString(body)
	b.WriteString("\n\n")

	b.WriteString(`<details style="margin-top: 40px; padding: 20px; background: #f8f9fa; border-radius: 8px;">` + "\n")
	fmt.Fprintf(&b, `<summary style="cursor: pointer; font-weight: bold; font-size: 1.1em; color: #1c3664;">Paper Reference Index (%d papers)</summary>`+"\n", len(index))
	b.WriteString(`<div style="margin-top: 20px;">` + "\n")
	for _, entry := range index {
		pdfLink := ""
		if entry.PDFURL != "" {
			pdfLink = fmt.Sprintf(` <a href="%s" target="_blank" style="color: #00c781; text-decoration: none;">PDF</a>`, entry.PDFURL)
		}
		fmt.Fprintf(&b, `<p style="margin: 10px 0; padding: 10px; background: white; border-radius: 5px;"><strong>[Paper %d]</strong> %s<br><small style="color: #666;">Score: %.2f | %s</small>%s</p>`+"\n",
			entry.Number, entry.Title, entry.Score, strings.Join(entry.Categories, ", "), pdfLink)
	}
	b.WriteString("</div>\n</details>")
	b.WriteString("\n</div>")
	return b.String()
}
