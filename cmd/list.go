package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strickvl/zenlings/internal/exercise"
	"github.com/strickvl/zenlings/internal/progress"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every exercise with its completion state",
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

		done := 0
		for _, ex := range catalog.Exercises {
			mark := " "
			if record.IsCompleted(ex.Name) {
				mark = "x"
				done++
			}
			caret := " "
			if ex.Name == record.Current {
				caret = ">"
			}
			fmt.Printf("%s [%s] %s\n", caret, mark, ex.DisplayPath())
		}
		fmt.Printf("\n%d/%d completed\n", done, catalog.Len())
		return nil
	},
}
