// Package website renders the static conference report: paper cards
// with enrichment insights, the author leaderboard, and the embedded
// synthesis, in one self-contained HTML file.
package website

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// Data is everything the report page shows.
type Data struct {
	Conference    string
	Papers        []model.PaperRecord
	Authors       []model.AuthorRecord
	Categories    []string
	SynthesisHTML string
}

type pageModel struct {
	Conference string
	Papers     []paperView
	Authors    []authorView
	Categories []string
	Synthesis  template.HTML
	Stats      statsView
}

type statsView struct {
	Papers        int
	Enriched      int
	Authors       int
	HighRelevance int
}

type paperView struct {
	Title           string
	Authors         string
	Score           float64
	Session         string
	PDFURL          string
	Description     string
	KeyFindings     string
	KeyContribution string
	Novelty         string
	Categories      []string
	Award           bool
	Liked           bool
}

type authorView struct {
	Name         string
	Affiliation  string
	Role         string
	PhotoURL     string
	ProfileURL   string
	PaperCount   int
	HighlyCount  int
	AverageScore float64
}

// Render produces the report HTML.
func Render(data Data) ([]byte, error) {
	page := pageModel{
		Conference: data.Conference,
		Categories: data.Categories,
		// The synthesis fragment is generated by us, not user input.
		Synthesis: template.HTML(data.SynthesisHTML),
	}

	papers := make([]model.PaperRecord, len(data.Papers))
	copy(papers, data.Papers)
	sort.SliceStable(papers, func(i, j int) bool { return papers[i].Score > papers[j].Score })

	for _, p := range papers {
		page.Papers = append(page.Papers, paperView{
			Title:           p.Title,
			Authors:         p.Authors,
			Score:           p.Score,
			Session:         p.SessionName,
			PDFURL:          p.PDFURL,
			Description:     p.Description,
			KeyFindings:     p.KeyFindings,
			KeyContribution: p.KeyContribution,
			Novelty:         p.Novelty,
			Categories:      p.AICategories,
			Award:           p.Award,
			Liked:           p.Liked,
		})
		if p.Enriched() {
			page.Stats.Enriched++
		}
		if p.Score >= 85 {
			page.Stats.HighRelevance++
		}
	}
	page.Stats.Papers = len(papers)
	page.Stats.Authors = len(data.Authors)

	for _, a := range data.Authors {
		view := authorView{
			Name:         a.Name,
			Affiliation:  "Unknown",
			Role:         "Unknown",
			PaperCount:   a.PaperCount,
			HighlyCount:  a.HighlyRelevantCount,
			AverageScore: a.AvgScore,
		}
		if a.Affiliation != nil && *a.Affiliation != "" {
			view.Affiliation = *a.Affiliation
		}
		if a.Role != nil && *a.Role != "" {
			view.Role = *a.Role
		}
		if a.PhotoURL != nil {
			view.PhotoURL = *a.PhotoURL
		}
		if a.ProfileURL != nil {
			view.ProfileURL = *a.ProfileURL
		}
		page.Authors = append(page.Authors, view)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render website: %w", err)
	}
	return buf.Bytes(), nil
}
