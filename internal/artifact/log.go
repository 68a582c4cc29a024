// internal/artifact/log.go
// Package artifact implements the single-writer append log backing pipeline
// outputs. Each log is a JSON array of records keyed by case_id; every append
// rewrites the file atomically (temp file + rename) so an interrupted run
// always leaves a parseable, resumable artifact on disk.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record is any pipeline artifact keyed by a case identifier.
type Record interface {
	RecordID() string
}

// Log is a resumable append target for one output file. It owns the file:
// concurrent case workers append through the same Log, which serializes
// writes.
type Log[T Record] struct {
	mu      sync.Mutex
	path    string
	records []T
	seen    map[string]struct{}
}

// Open prepares a log at path. With resume set, any existing records are
// loaded and their case_ids skipped on subsequent appends; without it, a
// fresh run replaces the file on the first append.
func Open[T Record](path string, resume bool) (*Log[T], error) {
	l := &Log[T]{
		path: path,
		seen: make(map[string]struct{}),
	}

	if !resume {
		return l, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("error reading existing output %q: %w", path, err)
	}

	var existing []T
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil, fmt.Errorf("existing output %q is not a JSON array: %w", path, err)
	}

	l.records = existing
	for _, rec := range existing {
		l.seen[rec.RecordID()] = struct{}{}
	}
	return l, nil
}

// Has reports whether a case_id is already present in the log.
func (l *Log[T]) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Len returns the number of records currently in the log.
func (l *Log[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Append adds a record and checkpoints the file. Duplicate case_ids are
// dropped silently so resume plus concurrency can never double-write a case.
func (l *Log[T]) Append(rec T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := rec.RecordID()
	if _, ok := l.seen[id]; ok {
		return nil
	}
	l.records = append(l.records, rec)
	l.seen[id] = struct{}{}

	return l.flushLocked()
}

// flushLocked writes the whole array to a sibling temp file and renames it
// over the target. Rename is atomic on POSIX filesystems, so readers and
// resumed runs never observe a partially written array.
func (l *Log[T]) flushLocked() error {
	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp output: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing temp output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing temp output: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing output file: %w", err)
	}
	return nil
}
