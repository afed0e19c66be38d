package progress

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadAbsentGivesFreshRecord(t *testing.T) {
	rec, err := Load(filepath.Join(t.TempDir(), Filename))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Version != recordVersion {
		t.Errorf("Version = %d, want %d", rec.Version, recordVersion)
	}
	if len(rec.Completed) != 0 {
		t.Errorf("Completed = %v, want empty", rec.Completed)
	}
	if rec.StartedAt == "" || rec.LastActivity == "" {
		t.Error("fresh record should have timestamps set")
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on an unparseable file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)

	rec := NewRecord()
	rec.MarkCompleted("load1")
	rec.MarkCompleted("load2")
	rec.Current = "steps1"
	rec.RecordHint("load1")
	rec.RecordHint("load1")

	if err := Save(path, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// LastActivity is restamped by Save.
	rec.LastActivity = got.LastActivity
	if !reflect.DeepEqual(rec, got) {
		t.Errorf("round trip mismatch:\nsaved  %+v\nloaded %+v", rec, got)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)

	if err := Save(path, NewRecord()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != Filename {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only %s", names, Filename)
	}
}

func TestStaleTempFileIsNotCanonical(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)

	// A crash between temp write and rename leaves only the temp file.
	if err := os.WriteFile(path+".tmp", []byte(`{"version":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rec.Completed) != 0 {
		t.Error("a leftover temp file must not be read as progress")
	}
}

func TestMarkCompletedSetSemantics(t *testing.T) {
	rec := NewRecord()
	rec.MarkCompleted("load1")
	rec.MarkCompleted("load2")
	rec.MarkCompleted("load1")

	want := []string{"load1", "load2"}
	if !reflect.DeepEqual(rec.Completed, want) {
		t.Errorf("Completed = %v, want %v", rec.Completed, want)
	}
	if !rec.IsCompleted("load1") || rec.IsCompleted("load3") {
		t.Error("IsCompleted membership wrong")
	}
}

func TestHintCounting(t *testing.T) {
	rec := NewRecord()
	if rec.HintCount("load1") != 0 {
		t.Error("unseen exercise should count zero hints")
	}
	rec.RecordHint("load1")
	rec.RecordHint("load1")
	rec.RecordHint("load2")
	if got := rec.HintCount("load1"); got != 2 {
		t.Errorf("HintCount(load1) = %d, want 2", got)
	}
	if got := rec.HintCount("load2"); got != 1 {
		t.Errorf("HintCount(load2) = %d, want 1", got)
	}
}
