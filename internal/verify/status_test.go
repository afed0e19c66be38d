package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRunsListing(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{
			name:  "completed run",
			input: `{"index":1,"max_size":1,"total_pages":1,"total":7,"items":[{"id":"3a7d","status":"completed"}]}`,
			want:  "completed",
		},
		{
			name:  "running run",
			input: `{"items":[{"status":"running"}]}`,
			want:  "running",
		},
		{
			name:  "first item wins",
			input: `{"items":[{"status":"failed"},{"status":"completed"}]}`,
			want:  "failed",
		},
		{
			name:    "no runs",
			input:   `{"items":[]}`,
			wantErr: "no pipeline runs found",
		},
		{
			name:    "not json",
			input:   `ZenML CLI error: something broke`,
			wantErr: "parse runs listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRunsListing([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRunsListing: %v", err)
			}
			if got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestZenMLInitialized(t *testing.T) {
	dir := t.TempDir()
	if ZenMLInitialized(dir) {
		t.Error("bare directory should not count as initialized")
	}
	if err := os.Mkdir(filepath.Join(dir, ".zen"), 0o755); err != nil {
		t.Fatal(err)
	}
	if !ZenMLInitialized(dir) {
		t.Error("directory with .zen should count as initialized")
	}
}
