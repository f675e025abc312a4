package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// paperFields is the fixed column order of the papers CSV.
var paperFields = []string{
	"paper_id", "title", "authors", "pdf_url", "session_id", "session_name",
	"poster_id", "poster_number", "tag", "relevance_score",
	"award", "bookmarked", "liked", "disliked", "pinned",
}

// PaperStore persists the cleaned papers collection as a CSV keyed by
// title.
type PaperStore struct {
	Path string
}

// Load reads the papers CSV. Returns ErrStateNotFound if the file does
// not exist and ErrCorruptState if it cannot be parsed.
func (s *PaperStore) Load() ([]model.PaperRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.Path, ErrStateNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.Path, err, ErrCorruptState)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file: %w", s.Path, ErrCorruptState)
	}

	// Map header positions so column reordering in hand-edited files
	// still loads.
	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}
	if _, ok := idx["title"]; !ok {
		return nil, fmt.Errorf("%s: missing title column: %w", s.Path, ErrCorruptState)
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	papers := make([]model.PaperRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		score, err := strconv.ParseFloat(get(row, "relevance_score"), 64)
		if err != nil {
			score = 0
		}
		papers = append(papers, model.PaperRecord{
			PaperID:      get(row, "paper_id"),
			Title:        get(row, "title"),
			Authors:      get(row, "authors"),
			PDFURL:       get(row, "pdf_url"),
			SessionID:    get(row, "session_id"),
			SessionName:  get(row, "session_name"),
			PosterID:     get(row, "poster_id"),
			PosterNumber: get(row, "poster_number"),
			Tag:          get(row, "tag"),
			Score:        score,
			Award:        model.ParseBool(get(row, "award")),
			Bookmarked:   model.ParseBool(get(row, "bookmarked")),
			Liked:        model.ParseBool(get(row, "liked")),
			Disliked:     model.ParseBool(get(row, "disliked")),
			Pinned:       model.ParseBool(get(row, "pinned")),
		})
	}
	return papers, nil
}

// Save writes the papers CSV atomically.
func (s *PaperStore) Save(papers []model.PaperRecord) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(paperFields); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range papers {
		p := &papers[i]
		row := []string{
			p.PaperID,
			p.Title,
			p.Authors,
			p.PDFURL,
			p.SessionID,
			p.SessionName,
			p.PosterID,
			p.PosterNumber,
			p.Tag,
			strconv.FormatFloat(p.Score, 'f', -1, 64),
			model.FormatBool(p.Award),
			model.FormatBool(p.Bookmarked),
			model.FormatBool(p.Liked),
			model.FormatBool(p.Disliked),
			model.FormatBool(p.Pinned),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return writeFileAtomic(s.Path, []byte(sb.String()))
}
