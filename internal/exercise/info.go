package exercise

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// InfoFilename is the curriculum metadata file that marks a pack root.
const InfoFilename = "info.toml"

// supportedFormatVersion is the only info.toml schema version we read.
const supportedFormatVersion = 1

// Info is the parsed root of info.toml.
type Info struct {
	FormatVersion  int     `toml:"format_version"`
	WelcomeMessage string  `toml:"welcome_message"`
	FinalMessage   string  `toml:"final_message"`
	Exercises      []Entry `toml:"exercises"`
}

// Entry is a raw exercise record from info.toml before path resolution.
type Entry struct {
	Name            string `toml:"name"`
	Dir             string `toml:"dir"`
	Hint            string `toml:"hint"`
	PipelineName    string `toml:"pipeline_name"`
	VerifyStatus    string `toml:"verify_status"`
	VerifyStepCount int    `toml:"verify_step_count"`
}

// LoadInfo reads and parses info.toml from the given path.
func LoadInfo(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", InfoFilename, err)
	}

	var info Info
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse %s: %w", InfoFilename, err)
	}

	if info.FormatVersion != supportedFormatVersion {
		return nil, fmt.Errorf("unsupported %s format version %d (expected %d)",
			InfoFilename, info.FormatVersion, supportedFormatVersion)
	}

	return &info, nil
}
