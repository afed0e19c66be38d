package exercise

import (
	"os"
	"path/filepath"
	"testing"
)

const testInfo = `
format_version = 1
welcome_message = "Welcome to zenlings!"
final_message = "You finished the pack."

[[exercises]]
name = "load1"
dir = "01_loading"
hint = "Look at the @step decorator."

[[exercises]]
name = "train1"
dir = "02_training"
pipeline_name = "custom_training"
verify_status = "running"
verify_step_count = 3
`

// writePack lays out a minimal pack under a temp dir.
func writePack(t *testing.T, info string, scripts ...string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, InfoFilename), []byte(info), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, rel := range scripts {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("print('hi')\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLoadCatalogResolvesDefaults(t *testing.T) {
	root := writePack(t, testInfo,
		"exercises/01_loading/load1.py",
		"exercises/02_training/train1.py",
	)

	c, err := LoadCatalog(root)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	load1 := c.Exercises[0]
	if load1.PipelineName != "load1_pipeline" {
		t.Errorf("PipelineName = %q, want default load1_pipeline", load1.PipelineName)
	}
	if load1.VerifyStatus != "completed" {
		t.Errorf("VerifyStatus = %q, want default completed", load1.VerifyStatus)
	}
	if load1.Path != filepath.Join(c.PackRoot, "exercises", "01_loading", "load1.py") {
		t.Errorf("Path = %q", load1.Path)
	}
	if load1.SolutionPath != filepath.Join(c.PackRoot, "solutions", "01_loading", "load1.py") {
		t.Errorf("SolutionPath = %q", load1.SolutionPath)
	}
	if load1.DisplayPath() != "01_loading/load1.py" {
		t.Errorf("DisplayPath = %q", load1.DisplayPath())
	}

	train1 := c.Exercises[1]
	if train1.PipelineName != "custom_training" {
		t.Errorf("PipelineName = %q, want custom_training", train1.PipelineName)
	}
	if train1.VerifyStatus != "running" {
		t.Errorf("VerifyStatus = %q, want running", train1.VerifyStatus)
	}
	if train1.VerifyStepCount != 3 {
		t.Errorf("VerifyStepCount = %d, want 3", train1.VerifyStepCount)
	}

	if c.Info.WelcomeMessage == "" || c.Info.FinalMessage == "" {
		t.Error("welcome and final messages should be loaded")
	}
}

func TestLoadCatalogFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing info.toml",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "unsupported format version",
			setup: func(t *testing.T) string {
				return writePack(t, "format_version = 2\n[[exercises]]\nname = \"a\"\ndir = \"01\"\n",
					"exercises/01/a.py")
			},
		},
		{
			name: "empty exercise list",
			setup: func(t *testing.T) string {
				return writePack(t, "format_version = 1\n")
			},
		},
		{
			name: "missing exercise file",
			setup: func(t *testing.T) string {
				return writePack(t, testInfo, "exercises/01_loading/load1.py")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCatalog(tt.setup(t)); err == nil {
				t.Error("LoadCatalog should fail")
			}
		})
	}
}

func TestCatalogLookups(t *testing.T) {
	root := writePack(t, testInfo,
		"exercises/01_loading/load1.py",
		"exercises/02_training/train1.py",
	)
	c, err := LoadCatalog(root)
	if err != nil {
		t.Fatal(err)
	}

	if idx := c.IndexOf("train1"); idx != 1 {
		t.Errorf("IndexOf(train1) = %d, want 1", idx)
	}
	if idx := c.IndexOf("nope"); idx != -1 {
		t.Errorf("IndexOf(nope) = %d, want -1", idx)
	}

	if _, err := c.ByName("load1"); err != nil {
		t.Errorf("ByName(load1): %v", err)
	}
	if _, err := c.ByName("nope"); err == nil {
		t.Error("ByName(nope) should fail")
	}
}

func TestFindPackRoot(t *testing.T) {
	root := writePack(t, testInfo, "exercises/01_loading/load1.py")

	nested := filepath.Join(root, "exercises", "01_loading")
	got, err := FindPackRoot(nested)
	if err != nil {
		t.Fatalf("FindPackRoot: %v", err)
	}
	// Resolve symlinks: macOS temp dirs live behind /private.
	wantReal, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != wantReal {
		t.Errorf("FindPackRoot = %q, want %q", got, root)
	}

	if _, err := FindPackRoot(t.TempDir()); err == nil {
		t.Error("FindPackRoot should fail outside a pack")
	}
}
