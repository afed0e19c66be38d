package exercise

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Catalog is the ordered list of exercises for a pack, in curriculum order.
type Catalog struct {
	PackRoot  string
	Info      *Info
	Exercises []Exercise
}

// LoadCatalog parses info.toml under packRoot and resolves every exercise.
// It fails on an empty exercise list or a missing exercise script.
func LoadCatalog(packRoot string) (*Catalog, error) {
	abs, err := filepath.Abs(packRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve pack root: %w", err)
	}

	info, err := LoadInfo(filepath.Join(abs, InfoFilename))
	if err != nil {
		return nil, err
	}

	if len(info.Exercises) == 0 {
		return nil, fmt.Errorf("no exercises defined in %s", InfoFilename)
	}

	exercises := make([]Exercise, 0, len(info.Exercises))
	for _, entry := range info.Exercises {
		ex := resolve(entry, abs)
		if _, err := os.Stat(ex.Path); err != nil {
			return nil, fmt.Errorf("exercise file not found: %s (defined in %s as %q)",
				ex.Path, InfoFilename, entry.Name)
		}
		exercises = append(exercises, ex)
	}

	return &Catalog{PackRoot: abs, Info: info, Exercises: exercises}, nil
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.Exercises)
}

// IndexOf returns the position of the named exercise, or -1.
func (c *Catalog) IndexOf(name string) int {
	for i, ex := range c.Exercises {
		if ex.Name == name {
			return i
		}
	}
	return -1
}

// ByName returns the named exercise.
func (c *Catalog) ByName(name string) (Exercise, error) {
	if i := c.IndexOf(name); i >= 0 {
		return c.Exercises[i], nil
	}
	return Exercise{}, fmt.Errorf("exercise not found: %s", name)
}

// FindPackRoot walks from start toward the filesystem root looking for
// info.toml. The first directory containing it is the pack root.
func FindPackRoot(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	if fi, err := os.Stat(current); err == nil && !fi.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		if _, err := os.Stat(filepath.Join(current, InfoFilename)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New("could not find " + InfoFilename + " in " + start + " or any parent directory")
		}
		current = parent
	}
}
