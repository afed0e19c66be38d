// Package progress persists the learner's progress to a per-pack dotfile.
//
// The file is the only durable state of the tutor, so every save is
// crash-atomic: write a sibling temp file, fsync, then rename over the
// target. A partial write is never observable as the canonical file.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Filename is the progress dotfile stored at the pack root.
const Filename = ".zenlings-progress.json"

// recordVersion is the current on-disk schema version.
const recordVersion = 1

// Record is the persisted progress document.
//
// Identifiers in Completed and HintsUsed are validated against the live
// catalog at the point of use, not at load time: stale identifiers from an
// older curriculum are tolerated and ignored.
type Record struct {
	Version      int            `json:"version"`
	Completed    []string       `json:"completed"`
	Current      string         `json:"current,omitempty"`
	HintsUsed    map[string]int `json:"hints_used"`
	StartedAt    string         `json:"started_at"`
	LastActivity string         `json:"last_activity"`
}

// NewRecord returns a fresh record with timestamps initialized.
func NewRecord() *Record {
	now := time.Now().Format(time.RFC3339)
	return &Record{
		Version:      recordVersion,
		Completed:    []string{},
		HintsUsed:    map[string]int{},
		StartedAt:    now,
		LastActivity: now,
	}
}

// Load reads the record at path, or returns a fresh default when the file
// does not exist. A file that exists but cannot be parsed is an error.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse progress file %s: %w", path, err)
	}
	if rec.Completed == nil {
		rec.Completed = []string{}
	}
	if rec.HintsUsed == nil {
		rec.HintsUsed = map[string]int{}
	}
	return &rec, nil
}

// Save writes the record to path atomically and stamps LastActivity.
func Save(path string, rec *Record) error {
	rec.LastActivity = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize progress: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync progress: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp progress file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename progress file: %w", err)
	}
	return nil
}

// PathFor returns the progress file path for a pack root.
func PathFor(packRoot string) string {
	return filepath.Join(packRoot, Filename)
}

// IsCompleted reports whether the named exercise has been completed.
func (r *Record) IsCompleted(name string) bool {
	for _, c := range r.Completed {
		if c == name {
			return true
		}
	}
	return false
}

// MarkCompleted adds the exercise to the completed set. Marking an
// already-completed exercise is a no-op; first-completion order is kept.
func (r *Record) MarkCompleted(name string) {
	if !r.IsCompleted(name) {
		r.Completed = append(r.Completed, name)
	}
}

// RecordHint increments the hint counter for the exercise.
func (r *Record) RecordHint(name string) {
	if r.HintsUsed == nil {
		r.HintsUsed = map[string]int{}
	}
	r.HintsUsed[name]++
}

// HintCount returns how many times hints were requested for the exercise.
func (r *Record) HintCount(name string) int {
	return r.HintsUsed[name]
}
