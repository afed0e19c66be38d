package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/strickvl/zenlings/internal/exercise"
	"github.com/strickvl/zenlings/internal/history"
	"github.com/strickvl/zenlings/internal/logging"
	"github.com/strickvl/zenlings/internal/progress"
	"github.com/strickvl/zenlings/internal/tui"
	"github.com/strickvl/zenlings/internal/verify"
	"github.com/strickvl/zenlings/internal/watcher"
)

// runTutor loads the pack, runs the environment checks, wires the worker
// and the watcher, and hands control to the TUI.
func runTutor(cmd *cobra.Command) error {
	if logPath := logDestination(cmd); logPath != "" {
		level, _ := cmd.Flags().GetString("log-level")
		if err := logging.Init(logPath, level); err != nil {
			return err
		}
		defer logging.Close()
	}

	packRoot, err := resolvePackRoot(cmd)
	if err != nil {
		return err
	}

	catalog, err := exercise.LoadCatalog(packRoot)
	if err != nil {
		return err
	}

	opts := verify.DefaultOptions()
	opts.WorkingDir = catalog.PackRoot
	opts.PythonBin, _ = cmd.Flags().GetString("python")
	opts.ZenMLBin, _ = cmd.Flags().GetString("zenml")
	opts.Simple, _ = cmd.Flags().GetBool("simple-verify")

	if skip, _ := cmd.Flags().GetBool("skip-checks"); !skip && !opts.Simple {
		if err := environmentChecks(opts, catalog.PackRoot); err != nil {
			return err
		}
	}

	progressPath := progress.PathFor(catalog.PackRoot)
	record, err := progress.Load(progressPath)
	if err != nil {
		return err
	}

	startIndex, err := resolveStartIndex(cmd, catalog, record)
	if err != nil {
		return err
	}

	// Persist the current pointer immediately so a cold start already
	// leaves a progress file behind.
	record.Current = catalog.Exercises[startIndex].Name
	if err := progress.Save(progressPath, record); err != nil {
		return err
	}

	var store *history.Store
	if dbPath, err := resolveDBPath(cmd); err == nil {
		if store, err = history.Open(dbPath); err != nil {
			logging.Logger.Warn().Err(err).Msg("history disabled")
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	worker := verify.NewWorker(opts, logging.Component("worker"))
	defer worker.Stop()

	var watch *watcher.Watcher
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); !noWatch {
		watch, err = watcher.New(filepath.Join(catalog.PackRoot, "exercises"), ".py", logging.Component("watcher"))
		if err != nil {
			return err
		}
		defer watch.Close()
	}

	return tui.Run(tui.Config{
		Catalog:      catalog,
		Record:       record,
		ProgressPath: progressPath,
		Worker:       worker,
		Watch:        watch,
		History:      store,
		Simple:       opts.Simple,
		StartIndex:   startIndex,
		Log:          logging.Component("loop"),
	})
}

func logDestination(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		return p
	}
	return os.Getenv("ZENLINGS_LOG")
}

// resolveStartIndex picks the launch exercise: the --exercise flag wins,
// then the saved current pointer, then the first incomplete exercise.
func resolveStartIndex(cmd *cobra.Command, catalog *exercise.Catalog, record *progress.Record) (int, error) {
	if name, _ := cmd.Flags().GetString("exercise"); name != "" {
		idx := catalog.IndexOf(name)
		if idx < 0 {
			return 0, fmt.Errorf("unknown exercise %q; run 'zenlings list' to see all exercises", name)
		}
		return idx, nil
	}

	if record.Current != "" {
		if idx := catalog.IndexOf(record.Current); idx >= 0 {
			return idx, nil
		}
	}

	for i, ex := range catalog.Exercises {
		if !record.IsCompleted(ex.Name) {
			return i, nil
		}
	}
	return 0, nil
}

// environmentChecks verifies ZenML is usable before the TUI takes over
// the terminal. A missing .zen directory is fatal; a non-local
// orchestrator only warns.
func environmentChecks(opts verify.Options, packRoot string) error {
	if !verify.ZenMLInitialized(packRoot) {
		return fmt.Errorf(
			"ZenML is not initialized in %s\n\nRun:\n  cd %s && %s init",
			packRoot, packRoot, opts.ZenMLBin,
		)
	}

	if flavor := verify.OrchestratorFlavor(opts); flavor != "" && flavor != "local" {
		fmt.Fprintf(os.Stderr,
			"warning: active orchestrator is %q, not local; verification may be slow\n", flavor)
	}
	return nil
}
