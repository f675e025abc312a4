package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// authorsDocument is the persisted enriched-authors collection.
type authorsDocument struct {
	SchemaVersion int                  `json:"schema_version"`
	Authors       []model.AuthorRecord `json:"authors"`
}

// AuthorStore persists enriched author records keyed by name.
type AuthorStore struct {
	Path string
}

// Load reads the enriched-authors document. Version-1 files (a bare
// JSON array without a schema_version envelope) are migrated in place:
// entries missing an enrichment status get one backfilled from their
// field contents.
func (s *AuthorStore) Load() ([]model.AuthorRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.Path, ErrStateNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var doc authorsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// Legacy layout: bare array.
		var legacy []model.AuthorRecord
		if err2 := json.Unmarshal(data, &legacy); err2 != nil {
			return nil, fmt.Errorf("%s: %v: %w", s.Path, err, ErrCorruptState)
		}
		doc = authorsDocument{SchemaVersion: 1, Authors: legacy}
	}

	if doc.SchemaVersion < schemaVersion {
		migrateAuthors(doc.Authors)
	}
	return doc.Authors, nil
}

// migrateAuthors backfills the enrichment status tag on records written
// before the tag existed.
func migrateAuthors(authors []model.AuthorRecord) {
	for i := range authors {
		a := &authors[i]
		if a.EnrichmentStatus != "" || !a.Processed() {
			continue
		}
		if a.Resolved() {
			a.EnrichmentStatus = model.StatusSuccess
		} else {
			a.EnrichmentStatus = model.StatusNotFound
		}
	}
}

// Save writes the full document atomically.
func (s *AuthorStore) Save(authors []model.AuthorRecord) error {
	doc := authorsDocument{SchemaVersion: schemaVersion, Authors: authors}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	return writeFileAtomic(s.Path, data)
}

// MergeAndSave concatenates the three partitions (completed-from-before,
// previously-unresolved-and-skipped, freshly-processed) and overwrites
// the file atomically. Safe to call repeatedly as a checkpoint.
func (s *AuthorStore) MergeAndSave(alreadyDone, attempted, newlyDone []model.AuthorRecord) error {
	merged := make([]model.AuthorRecord, 0, len(alreadyDone)+len(attempted)+len(newlyDone))
	merged = append(merged, alreadyDone...)
	merged = append(merged, attempted...)
	merged = append(merged, newlyDone...)
	return s.Save(merged)
}
