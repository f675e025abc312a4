// Package store owns the canonical on-disk record collections: the
// papers CSV, the enriched-authors document, and the enriched-papers
// document. It is the ground truth of what is already done between runs.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrStateNotFound means no prior state exists at the path. Callers
	// treat this as "fresh run", never as a failure.
	ErrStateNotFound = errors.New("state file not found")

	// ErrCorruptState means the file exists but cannot be parsed. The
	// coordinator logs a warning and proceeds with empty state.
	ErrCorruptState = errors.New("state file corrupt")
)

// schemaVersion is the current persisted-document version. Version-1
// documents (bare arrays, no version field) are migrated on load.
const schemaVersion = 2

// writeFileAtomic writes data to path via a temp file in the same
// directory followed by a rename, so a checkpoint save interrupted by a
// crash never leaves a torn file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
