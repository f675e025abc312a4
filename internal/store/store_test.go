package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aldro61/PaperAtlas/internal/model"
)

func TestPaperStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	s := &PaperStore{Path: path}

	in := []model.PaperRecord{
		{
			PaperID:     "p1",
			Title:       "Learning to Learn",
			Authors:     "Alice Smith, Bob Jones",
			PDFURL:      "https://example.com/p1.pdf",
			SessionID:   "s1",
			SessionName: "Poster Session 1",
			Score:       92.25,
			Award:       true,
			Liked:       true,
		},
		{
			PaperID: "p2",
			Title:   "Benchmarks, Revisited",
			Authors: "Carol White",
			Score:   67.5,
		},
	}

	if err := s.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Load() returned %d papers, want 2", len(out))
	}

	if out[0].Score != 92.25 {
		t.Errorf("score did not round-trip: got %v", out[0].Score)
	}
	if !out[0].Award || !out[0].Liked || out[0].Disliked {
		t.Errorf("booleans did not round-trip: %+v", out[0])
	}
	if out[1].Award {
		t.Errorf("false boolean did not round-trip: %+v", out[1])
	}
}

func TestPaperStoreTruthyStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	csv := "title,relevance_score,award,bookmarked,liked,disliked,pinned\n" +
		"A Paper,90,TRUE,1,yes,Y,no\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := (&PaperStore{Path: path}).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p := out[0]
	if !p.Award || !p.Bookmarked || !p.Liked || !p.Disliked {
		t.Errorf("truthy strings not recognized: %+v", p)
	}
	if p.Pinned {
		t.Error("\"no\" should parse as false")
	}
}

func TestPaperStoreNotFound(t *testing.T) {
	s := &PaperStore{Path: filepath.Join(t.TempDir(), "missing.csv")}
	if _, err := s.Load(); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
}

func TestAuthorStoreRoundTripAndMigration(t *testing.T) {
	dir := t.TempDir()
	s := &AuthorStore{Path: filepath.Join(dir, "authors.json")}

	authors := []model.AuthorRecord{
		{
			Name:                "Alice Smith",
			PaperCount:          3,
			HighlyRelevantCount: 2,
			Affiliation:         model.StringPtr("MIT"),
			Role:                model.StringPtr("Professor"),
			EnrichmentStatus:    model.StatusSuccess,
		},
	}
	if err := s.Save(authors); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != 1 || out[0].Name != "Alice Smith" {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}

	// The poster schema carries no read counts, so the persisted
	// document must not carry read-count fields either.
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "reads") {
		t.Errorf("persisted author document carries a read-count field:\n%s", raw)
	}

	// Legacy layout: bare array, no schema_version, no status tags.
	legacy := `[
	  {"name": "Bob Jones", "affiliation": "CMU", "role": "Postdoc", "photo_url": null, "profile_url": null},
	  {"name": "Carol White", "affiliation": "Unknown", "role": "Unknown", "photo_url": null, "profile_url": null}
	]`
	legacyPath := filepath.Join(dir, "legacy.json")
	if err := os.WriteFile(legacyPath, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	migrated, err := (&AuthorStore{Path: legacyPath}).Load()
	if err != nil {
		t.Fatalf("Load(legacy) error = %v", err)
	}
	if migrated[0].EnrichmentStatus != model.StatusSuccess {
		t.Errorf("resolved legacy author should migrate to success, got %q", migrated[0].EnrichmentStatus)
	}
	if migrated[1].EnrichmentStatus != model.StatusNotFound {
		t.Errorf("unresolved legacy author should migrate to not_found, got %q", migrated[1].EnrichmentStatus)
	}
}

func TestAuthorStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&AuthorStore{Path: path}).Load(); !errors.Is(err, ErrCorruptState) {
		t.Errorf("expected ErrCorruptState, got %v", err)
	}
}

func TestEnrichedPaperStoreKeepsCategories(t *testing.T) {
	s := &EnrichedPaperStore{Path: filepath.Join(t.TempDir(), "enriched.json")}

	err := s.MergeAndSave(
		[]string{"LLMs", "Robotics"},
		[]model.PaperRecord{{Title: "Old", KeyFindings: "prior"}},
		[]model.PaperRecord{{Title: "New", KeyFindings: "fresh"}},
	)
	if err != nil {
		t.Fatalf("MergeAndSave() error = %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Categories) != 2 || doc.Categories[0] != "LLMs" {
		t.Errorf("categories not preserved: %v", doc.Categories)
	}
	if len(doc.Papers) != 2 {
		t.Errorf("expected 2 papers, got %d", len(doc.Papers))
	}
	if doc.SchemaVersion != schemaVersion {
		t.Errorf("schema version = %d, want %d", doc.SchemaVersion, schemaVersion)
	}
}

func TestMergeAndSaveRepeatable(t *testing.T) {
	// Checkpoint saves must be repeatable without corrupting the file.
	s := &AuthorStore{Path: filepath.Join(t.TempDir(), "authors.json")}
	already := []model.AuthorRecord{{Name: "Done Before"}}

	for i := 1; i <= 5; i++ {
		newly := make([]model.AuthorRecord, i)
		for j := range newly {
			newly[j] = model.AuthorRecord{Name: "New"}
		}
		if err := s.MergeAndSave(already, nil, newly); err != nil {
			t.Fatalf("checkpoint %d: %v", i, err)
		}
		out, err := s.Load()
		if err != nil {
			t.Fatalf("checkpoint %d load: %v", i, err)
		}
		if len(out) != 1+i {
			t.Fatalf("checkpoint %d: got %d records, want %d", i, len(out), 1+i)
		}
	}
}

func TestClassifyAuthor(t *testing.T) {
	tests := []struct {
		name   string
		author *model.AuthorRecord
		want   Classification
	}{
		{"nil record", nil, Missing},
		{"never processed", &model.AuthorRecord{Name: "X"}, Missing},
		{
			"resolved",
			&model.AuthorRecord{
				Affiliation: model.StringPtr("MIT"),
				Role:        model.StringPtr("Professor"),
			},
			Complete,
		},
		{
			"unknown affiliation",
			&model.AuthorRecord{
				Affiliation: model.StringPtr(model.UnknownValue),
				Role:        model.StringPtr("Professor"),
			},
			Attempted,
		},
		{
			"not_found status is terminal",
			&model.AuthorRecord{
				Affiliation:      model.StringPtr("MIT"),
				Role:             model.StringPtr("Professor"),
				EnrichmentStatus: model.StatusNotFound,
			},
			Attempted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyAuthor(tt.author); got != tt.want {
				t.Errorf("ClassifyAuthor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyPaper(t *testing.T) {
	enriched := &model.PaperRecord{
		Title:           "P",
		PDFURL:          "https://example.com/a.pdf",
		KeyFindings:     "f",
		Description:     "d",
		KeyContribution: "c",
		Novelty:         "n",
		AICategories:    []string{"LLMs"},
	}

	if got := ClassifyPaper(enriched, "https://example.com/a.pdf"); got != Complete {
		t.Errorf("matching URL should be Complete, got %v", got)
	}
	if got := ClassifyPaper(enriched, "https://example.com/moved.pdf"); got != Missing {
		t.Errorf("URL drift should force re-enrichment, got %v", got)
	}

	partial := &model.PaperRecord{Title: "P", KeyFindings: "only this"}
	if got := ClassifyPaper(partial, ""); got != Missing {
		t.Errorf("partial enrichment should be Missing, got %v", got)
	}
	if got := ClassifyPaper(nil, ""); got != Missing {
		t.Errorf("nil prior should be Missing, got %v", got)
	}
}
