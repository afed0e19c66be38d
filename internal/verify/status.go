package verify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// runsListing is the machine-readable shape of
// `zenml pipeline runs list --output json`.
type runsListing struct {
	Items []struct {
		Status string `json:"status"`
	} `json:"items"`
}

// PipelineStatus asks the zenml CLI for the status of the most recent run
// of the named pipeline.
func PipelineStatus(opts Options, pipeline string) (string, error) {
	cmd := exec.Command(opts.ZenMLBin,
		"pipeline", "runs", "list",
		"--pipeline", pipeline,
		"--size", "1",
		"--output", "json",
	)
	cmd.Dir = opts.WorkingDir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", opts.ZenMLBin, err)
	}

	return parseRunsListing(out)
}

// parseRunsListing extracts the first item's status field.
func parseRunsListing(data []byte) (string, error) {
	var listing runsListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return "", fmt.Errorf("parse runs listing: %w", err)
	}
	if len(listing.Items) == 0 {
		return "", errors.New("no pipeline runs found")
	}
	return listing.Items[0].Status, nil
}
