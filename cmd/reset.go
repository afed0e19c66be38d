package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strickvl/zenlings/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved progress for this pack",
	RunE: func(cmd *cobra.Command, args []string) error {
		packRoot, err := resolvePackRoot(cmd)
		if err != nil {
			return err
		}
		path := progress.PathFor(packRoot)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("No progress to reset.")
			return nil
		}

		if force, _ := cmd.Flags().GetBool("force"); !force {
			return fmt.Errorf("this deletes %s; re-run with --force to confirm", path)
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove progress file: %w", err)
		}
		fmt.Println("Progress reset. Welcome back to square one.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Actually delete the progress file")
}
