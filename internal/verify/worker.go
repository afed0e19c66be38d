package verify

import (
	"bufio"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/strickvl/zenlings/internal/exercise"
)

// Worker is the long-lived verification task. Exactly one run is in flight
// at a time; requests queue on the inbound channel in submission order.
//
// There is no mid-run cancellation: a submitted run always completes and
// its Result is identified by exercise name so the application loop can
// discard results that arrive after the learner moved on.
type Worker struct {
	opts     Options
	requests chan exercise.Exercise
	messages chan Message
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	log      zerolog.Logger
}

// NewWorker creates a worker and starts its goroutine.
func NewWorker(opts Options, log zerolog.Logger) *Worker {
	w := &Worker{
		opts:     opts,
		requests: make(chan exercise.Exercise, 4),
		messages: make(chan Message, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log,
	}
	go w.loop()
	return w
}

// Messages returns the outbound channel. It closes after Stop, once the
// current run (if any) has finished.
func (w *Worker) Messages() <-chan Message {
	return w.messages
}

// Submit queues a verification run for the exercise. Submissions after
// Stop are dropped.
func (w *Worker) Submit(ex exercise.Exercise) {
	select {
	case w.requests <- ex:
	case <-w.quit:
	}
}

// Stop asks the worker to exit and waits for it. An in-flight run finishes
// first, but its remaining output is discarded so the worker never blocks
// on a consumer that stopped draining.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
	<-w.done
}

// send delivers one message unless Stop has been requested. After stop the
// message is dropped; nothing is draining the channel anymore.
func (w *Worker) send(msg Message) {
	select {
	case w.messages <- msg:
	case <-w.quit:
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	defer close(w.messages)

	for {
		select {
		case <-w.quit:
			return
		case ex := <-w.requests:
			w.runOne(ex)
		}
	}
}

// runOne executes a full verification: stream the script, then build the
// Result. It emits the stream, the Done marker, and exactly one Completed.
func (w *Worker) runOne(ex exercise.Exercise) {
	start := time.Now()
	runID := uuid.NewString()
	w.log.Info().Str("exercise", ex.Name).Str("run_id", runID).Msg("verification started")

	scriptOK := w.streamScript(ex)

	result := Result{
		RunID:        runID,
		ExerciseName: ex.Name,
		ScriptExitOK: scriptOK,
	}

	switch {
	case w.opts.Simple:
		if scriptOK {
			result.Outcome = Passed
			result.Message = "Exercise completed successfully"
		} else {
			result.Outcome = Failed
			result.Message = "Python script failed"
		}
	case !scriptOK:
		result.Outcome = Failed
		result.Message = "Python script failed"
	default:
		w.checkPipelineStatus(ex, &result)
	}

	result.Duration = time.Since(start)
	w.log.Info().
		Str("exercise", ex.Name).
		Bool("passed", result.Passed()).
		Dur("duration", result.Duration).
		Msg("verification finished")

	w.send(Completed{Result: result})
}

// streamScript runs the learner script with stdout/stderr piped, forwards
// each line tagged by stream, then emits DoneLine. Returns the exit verdict.
func (w *Worker) streamScript(ex exercise.Exercise) bool {
	cmd := exec.Command(w.opts.PythonBin, ex.Path)
	cmd.Dir = w.opts.WorkingDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		w.send(Output{Line: StderrLine("failed to pipe stdout: " + err.Error())})
		w.send(Output{Line: DoneLine{ExitOK: false}})
		return false
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		w.send(Output{Line: StderrLine("failed to pipe stderr: " + err.Error())})
		w.send(Output{Line: DoneLine{ExitOK: false}})
		return false
	}

	if err := cmd.Start(); err != nil {
		w.send(Output{Line: StderrLine("failed to run " + w.opts.PythonBin + ": " + err.Error())})
		w.send(Output{Line: DoneLine{ExitOK: false}})
		return false
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			w.send(Output{Line: StdoutLine(sc.Text())})
		}
	}()
	go func() {
		defer readers.Done()
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			w.send(Output{Line: StderrLine(sc.Text())})
		}
	}()

	// Both pipes must reach EOF before Wait closes them.
	readers.Wait()
	ok := cmd.Wait() == nil

	w.send(Output{Line: DoneLine{ExitOK: ok}})
	return ok
}

// checkPipelineStatus fills Outcome and Message from the ZenML status tool.
// A failing status tool is always a failed verification, never a pass.
func (w *Worker) checkPipelineStatus(ex exercise.Exercise, result *Result) {
	result.ZenMLChecked = true

	status, err := PipelineStatus(w.opts, ex.PipelineName)
	if err != nil {
		w.log.Warn().Err(err).Str("pipeline", ex.PipelineName).Msg("status check failed")
		result.Outcome = Failed
		result.Message = "ZenML status check failed"
		return
	}

	if status == ex.VerifyStatus {
		result.Outcome = Passed
		result.Message = "Pipeline " + ex.VerifyStatus
		return
	}

	result.Outcome = Failed
	result.Message = "Pipeline status '" + status + "', expected '" + ex.VerifyStatus + "'"
}
