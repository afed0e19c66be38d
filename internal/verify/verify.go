// Package verify runs learner scripts and checks their outcome against the
// ZenML pipeline engine.
//
// A single background Worker serializes verification requests. During a run
// the learner script's stdout and stderr are streamed line-by-line to the
// caller; after the process exits the worker consults the zenml CLI (unless
// simple mode is on) and emits exactly one Result.
package verify

import (
	"os"
	"time"
)

// Outcome is the final verdict of a verification run.
type Outcome int

const (
	Failed Outcome = iota
	Passed
)

// Options configures how verifications are executed.
type Options struct {
	// PythonBin is the interpreter used to run learner scripts.
	PythonBin string
	// ZenMLBin is the zenml CLI used for status checks.
	ZenMLBin string
	// WorkingDir is the pack root; all subprocesses run there.
	WorkingDir string
	// Simple skips the ZenML status check and trusts the exit code.
	Simple bool
}

// DefaultOptions returns options with the conventional binary names and the
// current directory as the working directory.
func DefaultOptions() Options {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Options{PythonBin: "python", ZenMLBin: "zenml", WorkingDir: wd}
}

// OutputLine is one streamed line of subprocess output, or the terminal
// Done marker. It is one of StdoutLine, StderrLine, or DoneLine.
type OutputLine interface{ isOutputLine() }

// StdoutLine is a line the learner script wrote to stdout.
type StdoutLine string

// StderrLine is a line the learner script wrote to stderr.
type StderrLine string

// DoneLine marks the end of a run's stream and carries the exit verdict.
type DoneLine struct {
	ExitOK bool
}

func (StdoutLine) isOutputLine() {}
func (StderrLine) isOutputLine() {}
func (DoneLine) isOutputLine()   {}

// Result is the structured outcome of one verification run.
type Result struct {
	// RunID uniquely identifies this verification attempt.
	RunID string
	// ExerciseName names the exercise this result belongs to. The
	// application loop drops results whose name no longer matches the
	// current exercise.
	ExerciseName string
	Outcome      Outcome

	// ScriptExitOK reports whether the learner script exited zero.
	ScriptExitOK bool
	// ZenMLChecked reports whether the status tool was consulted.
	ZenMLChecked bool
	// Message is the human-readable summary shown in the status band.
	Message string

	Duration time.Duration
}

// Passed reports whether the run succeeded.
func (r Result) Passed() bool {
	return r.Outcome == Passed
}

// Message is what the worker sends back to the application loop. It is one
// of Output or Completed. For every run the sequence is: zero or more
// Output lines, one Output carrying DoneLine, then exactly one Completed.
type Message interface{ isMessage() }

// Output carries one streamed line during a run.
type Output struct {
	Line OutputLine
}

// Completed carries the final Result of a run.
type Completed struct {
	Result Result
}

func (Output) isMessage()    {}
func (Completed) isMessage() {}
