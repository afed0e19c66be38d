// Package exercise loads the curriculum metadata (info.toml) and resolves
// exercise file paths within a zenlings pack.
package exercise

import (
	"fmt"
	"path/filepath"
)

// Exercise is a fully resolved curriculum entry. Immutable after load.
type Exercise struct {
	// Name uniquely identifies the exercise within the pack.
	Name string
	// Dir is the group subdirectory, e.g. "01_loading".
	Dir  string
	Hint string

	// Path is the absolute path to the learner-editable script.
	Path string
	// SolutionPath is the absolute path to the reference solution.
	SolutionPath string

	// PipelineName is the key used to query ZenML for the most recent run.
	// Defaults to "<name>_pipeline".
	PipelineName string
	// VerifyStatus is the pipeline status that counts as a pass.
	// Defaults to "completed".
	VerifyStatus string
	// VerifyStepCount is an optional expected step count (0 = unset).
	VerifyStepCount int
}

// resolve builds an Exercise from a raw info.toml entry, filling defaults.
func resolve(entry Entry, packRoot string) Exercise {
	file := entry.Name + ".py"

	pipeline := entry.PipelineName
	if pipeline == "" {
		pipeline = entry.Name + "_pipeline"
	}
	status := entry.VerifyStatus
	if status == "" {
		status = "completed"
	}

	return Exercise{
		Name:            entry.Name,
		Dir:             entry.Dir,
		Hint:            entry.Hint,
		Path:            filepath.Join(packRoot, "exercises", entry.Dir, file),
		SolutionPath:    filepath.Join(packRoot, "solutions", entry.Dir, file),
		PipelineName:    pipeline,
		VerifyStatus:    status,
		VerifyStepCount: entry.VerifyStepCount,
	}
}

// DisplayPath returns the path shown in the UI, relative to exercises/.
func (e Exercise) DisplayPath() string {
	return fmt.Sprintf("%s/%s.py", e.Dir, e.Name)
}
