package verify

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
)

// ZenMLInitialized reports whether zenml has been initialized in dir.
func ZenMLInitialized(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".zen"))
	return err == nil
}

// OrchestratorFlavor returns the active stack's orchestrator flavor, or ""
// when it cannot be determined. Used only for a startup warning; the tutor
// works best with the local orchestrator.
func OrchestratorFlavor(opts Options) string {
	cmd := exec.Command(opts.ZenMLBin, "stack", "describe", "--output", "json")
	cmd.Dir = opts.WorkingDir

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	var desc struct {
		Orchestrator struct {
			Flavor string `json:"flavor"`
		} `json:"orchestrator"`
	}
	if err := json.Unmarshal(out, &desc); err != nil {
		return ""
	}
	return desc.Orchestrator.Flavor
}
