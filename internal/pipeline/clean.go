package pipeline

import (
	"math"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// CleanPapers normalizes a collected batch: papers without a title are
// dropped, duplicate titles (case-insensitive, first occurrence wins)
// are removed, raw 0-1 relevance scores become 0-100 percentages
// rounded to two decimals, and papers at or below lowThreshold are
// discarded. Returns the cleaned slice plus the dropped counts.
func CleanPapers(papers []model.PaperRecord, lowThreshold float64) (cleaned []model.PaperRecord, droppedDupes, droppedLow int) {
	seen := make(map[string]bool, len(papers))

	for _, paper := range papers {
		title := strings.TrimSpace(paper.Title)
		if title == "" {
			continue
		}

		key := strings.ToLower(title)
		if seen[key] {
			droppedDupes++
			continue
		}

		pct := math.Round(paper.Score*100*100) / 100
		if pct <= lowThreshold {
			droppedLow++
			continue
		}

		paper.Title = title
		paper.Score = pct
		cleaned = append(cleaned, paper)
		seen[key] = true
	}
	return cleaned, droppedDupes, droppedLow
}
