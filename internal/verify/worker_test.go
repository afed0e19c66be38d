package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/strickvl/zenlings/internal/exercise"
)

// writeScript drops a shell script into dir and returns an Exercise whose
// editable path points at it. The worker runs scripts through opts.PythonBin,
// so tests use sh as the interpreter.
func writeScript(t *testing.T, dir, name, body string) exercise.Exercise {
	t.Helper()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return exercise.Exercise{Name: name, Dir: "01", Path: path}
}

func newTestWorker(t *testing.T, dir string) *Worker {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive the worker with sh scripts")
	}
	w := NewWorker(Options{
		PythonBin:  "sh",
		WorkingDir: dir,
		Simple:     true,
	}, zerolog.Nop())
	t.Cleanup(w.Stop)
	return w
}

// collectRun receives messages until the Completed terminator.
func collectRun(t *testing.T, w *Worker) ([]Message, Result) {
	t.Helper()
	var msgs []Message
	deadline := time.After(10 * time.Second)
	for {
		select {
		case msg, ok := <-w.Messages():
			if !ok {
				t.Fatal("message channel closed mid-run")
			}
			msgs = append(msgs, msg)
			if done, isDone := msg.(Completed); isDone {
				return msgs, done.Result
			}
		case <-deadline:
			t.Fatal("timed out waiting for a result")
		}
	}
}

func TestWorkerStreamsThenCompletes(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorker(t, dir)

	ex := writeScript(t, dir, "load1", "#!/bin/sh\necho out1\necho err1 >&2\necho out2\nexit 0\n")
	w.Submit(ex)

	msgs, result := collectRun(t, w)

	var stdout, stderr []string
	doneSeen := false
	for _, msg := range msgs[:len(msgs)-1] {
		out, isOutput := msg.(Output)
		if !isOutput {
			t.Fatalf("non-Output message %#v before Completed", msg)
		}
		if doneSeen {
			t.Fatal("output line after the Done marker")
		}
		switch line := out.Line.(type) {
		case StdoutLine:
			stdout = append(stdout, string(line))
		case StderrLine:
			stderr = append(stderr, string(line))
		case DoneLine:
			doneSeen = true
			if !line.ExitOK {
				t.Error("DoneLine.ExitOK = false for a zero exit")
			}
		}
	}
	if !doneSeen {
		t.Fatal("no Done marker before the result")
	}

	if len(stdout) != 2 || stdout[0] != "out1" || stdout[1] != "out2" {
		t.Errorf("stdout lines = %v, want ordered [out1 out2]", stdout)
	}
	if len(stderr) != 1 || stderr[0] != "err1" {
		t.Errorf("stderr lines = %v, want [err1]", stderr)
	}

	if !result.Passed() {
		t.Errorf("result not passed: %+v", result)
	}
	if result.ExerciseName != "load1" {
		t.Errorf("ExerciseName = %q", result.ExerciseName)
	}
	if result.Message != "Exercise completed successfully" {
		t.Errorf("Message = %q", result.Message)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestWorkerFailedScript(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorker(t, dir)

	ex := writeScript(t, dir, "broken", "#!/bin/sh\necho 'Traceback (most recent call last):' >&2\nexit 1\n")
	w.Submit(ex)

	_, result := collectRun(t, w)

	if result.Passed() {
		t.Fatal("failing script should not pass")
	}
	if result.ScriptExitOK {
		t.Error("ScriptExitOK should be false")
	}
	if result.Message != "Python script failed" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestWorkerSerializesRuns(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorker(t, dir)

	for i := 0; i < 3; i++ {
		w.Submit(writeScript(t, dir, fmt.Sprintf("ex%d", i), "#!/bin/sh\nexit 0\n"))
	}

	// Results arrive in submission order, one per run.
	for i := 0; i < 3; i++ {
		_, result := collectRun(t, w)
		want := fmt.Sprintf("ex%d", i)
		if result.ExerciseName != want {
			t.Errorf("result %d for %q, want %q", i, result.ExerciseName, want)
		}
	}
}

func TestWorkerSpawnFailureIsAFailedResult(t *testing.T) {
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive the worker with sh scripts")
	}
	w := NewWorker(Options{
		PythonBin:  filepath.Join(dir, "no-such-interpreter"),
		WorkingDir: dir,
		Simple:     true,
	}, zerolog.Nop())
	t.Cleanup(w.Stop)

	w.Submit(exercise.Exercise{Name: "load1", Path: filepath.Join(dir, "load1.py")})

	_, result := collectRun(t, w)
	if result.Passed() {
		t.Fatal("spawn failure must be a failed result, not a pass")
	}
	if result.Message != "Python script failed" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestWorkerFullMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests drive the worker with sh scripts")
	}

	// Stand in for the zenml CLI with a script that prints a fixed
	// runs listing regardless of arguments.
	writeStatusTool := func(t *testing.T, dir, listing string) string {
		t.Helper()
		path := filepath.Join(dir, "zenml-stub")
		body := "#!/bin/sh\necho '" + listing + "'\n"
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("status matches expected", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWorker(Options{
			PythonBin:  "sh",
			ZenMLBin:   writeStatusTool(t, dir, `{"items":[{"status":"completed"}]}`),
			WorkingDir: dir,
		}, zerolog.Nop())
		t.Cleanup(w.Stop)

		ex := writeScript(t, dir, "load1", "#!/bin/sh\nexit 0\n")
		ex.PipelineName = "load1_pipeline"
		ex.VerifyStatus = "completed"
		w.Submit(ex)

		_, result := collectRun(t, w)
		if !result.Passed() {
			t.Fatalf("result not passed: %+v", result)
		}
		if !result.ZenMLChecked {
			t.Error("ZenMLChecked should be true in full mode")
		}
		if result.Message != "Pipeline completed" {
			t.Errorf("Message = %q", result.Message)
		}
	})

	t.Run("script passes but status mismatches", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWorker(Options{
			PythonBin:  "sh",
			ZenMLBin:   writeStatusTool(t, dir, `{"items":[{"status":"running"}]}`),
			WorkingDir: dir,
		}, zerolog.Nop())
		t.Cleanup(w.Stop)

		ex := writeScript(t, dir, "train1", "#!/bin/sh\nexit 0\n")
		ex.PipelineName = "train1_pipeline"
		ex.VerifyStatus = "completed"
		w.Submit(ex)

		_, result := collectRun(t, w)
		if result.Passed() {
			t.Fatal("status mismatch must fail even when the script exits zero")
		}
		if !result.ScriptExitOK {
			t.Error("ScriptExitOK should be true")
		}
		want := "Pipeline status 'running', expected 'completed'"
		if result.Message != want {
			t.Errorf("Message = %q, want %q", result.Message, want)
		}
	})

	t.Run("status tool failure", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWorker(Options{
			PythonBin:  "sh",
			ZenMLBin:   filepath.Join(dir, "no-such-zenml"),
			WorkingDir: dir,
		}, zerolog.Nop())
		t.Cleanup(w.Stop)

		ex := writeScript(t, dir, "load1", "#!/bin/sh\nexit 0\n")
		ex.VerifyStatus = "completed"
		w.Submit(ex)

		_, result := collectRun(t, w)
		if result.Passed() {
			t.Fatal("a broken status tool must never produce a pass")
		}
		if result.Message != "ZenML status check failed" {
			t.Errorf("Message = %q", result.Message)
		}
	})
}

func TestStopReturnsWhileVerboseRunInFlight(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorker(t, dir)

	// Far more output than the message buffer holds, and no consumer
	// draining it.
	body := "#!/bin/sh\ni=0\nwhile [ $i -lt 300 ]; do echo line $i; i=$((i+1)); done\n"
	w.Submit(writeScript(t, dir, "chatty", body))

	// Let the run block on the full buffer before asking it to stop.
	time.Sleep(500 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return while a verbose run was in flight")
	}
}

func TestStopClosesMessageChannel(t *testing.T) {
	w := newTestWorker(t, t.TempDir())
	w.Stop()

	select {
	case _, ok := <-w.Messages():
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Error("message channel did not close after Stop")
	}
}
