package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strickvl/zenlings/internal/exercise"
	"github.com/strickvl/zenlings/internal/history"
	"github.com/strickvl/zenlings/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show verification attempts and hint usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		packRoot, err := resolvePackRoot(cmd)
		if err != nil {
			return err
		}
		catalog, err := exercise.LoadCatalog(packRoot)
		if err != nil {
			return err
		}
		record, err := progress.Load(progress.PathFor(catalog.PackRoot))
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		store, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		totals, err := store.Totals(ctx)
		if err != nil {
			return err
		}
		perExercise, err := store.PerExercise(ctx)
		if err != nil {
			return err
		}

		done := 0
		for _, ex := range catalog.Exercises {
			if record.IsCompleted(ex.Name) {
				done++
			}
		}

		fmt.Printf("Exercises completed: %d/%d\n", done, catalog.Len())
		fmt.Printf("Verification runs:   %d (%d passed)\n\n", totals.Attempts, totals.Passes)

		if len(perExercise) == 0 {
			fmt.Println("No verification runs recorded yet.")
			return nil
		}

		fmt.Println("Per exercise:")
		for _, es := range perExercise {
			hints := record.HintCount(es.Exercise)
			fmt.Printf("  %-30s %3d runs, %3d passed, %d hints\n",
				es.Exercise, es.Attempts, es.Passes, hints)
		}
		return nil
	},
}
