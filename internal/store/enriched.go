package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// EnrichedPapersDocument couples the paper list with the CategorySet it
// was classified against. Categories are stored alongside papers so a
// later run can reuse the vocabulary instead of regenerating it.
type EnrichedPapersDocument struct {
	SchemaVersion int                 `json:"schema_version"`
	Categories    []string            `json:"categories"`
	Papers        []model.PaperRecord `json:"papers"`
}

// EnrichedPaperStore persists the enriched papers document.
type EnrichedPaperStore struct {
	Path string
}

// Load reads the enriched-papers document. Files written before the
// schema_version field existed parse fine: the field defaults to zero
// and the contents need no migration.
func (s *EnrichedPaperStore) Load() (*EnrichedPapersDocument, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.Path, ErrStateNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var doc EnrichedPapersDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.Path, err, ErrCorruptState)
	}
	return &doc, nil
}

// Save writes the document atomically.
func (s *EnrichedPaperStore) Save(doc *EnrichedPapersDocument) error {
	doc.SchemaVersion = schemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal enriched papers: %w", err)
	}
	return writeFileAtomic(s.Path, data)
}

// MergeAndSave concatenates reused and freshly-enriched papers with the
// shared category vocabulary and overwrites the file atomically. Safe
// to call repeatedly as a checkpoint.
func (s *EnrichedPaperStore) MergeAndSave(categories []string, alreadyDone, newlyDone []model.PaperRecord) error {
	merged := make([]model.PaperRecord, 0, len(alreadyDone)+len(newlyDone))
	merged = append(merged, alreadyDone...)
	merged = append(merged, newlyDone...)
	return s.Save(&EnrichedPapersDocument{
		Categories: categories,
		Papers:     merged,
	})
}
