package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strickvl/zenlings/internal/exercise"
	"github.com/strickvl/zenlings/internal/history"
)

var rootCmd = &cobra.Command{
	Use:   "zenlings",
	Short: "Interactive ZenML tutor",
	Long: "Zenlings — learn ZenML by fixing small broken pipelines.\n" +
		"Edit the current exercise, save, and zenlings verifies it for you.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTutor(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().String("exercise", "", "Jump to a specific exercise on launch")
	rootCmd.Flags().Bool("no-watch", false, "Disable file watching; verify only via the r key")
	rootCmd.Flags().Bool("simple-verify", false, "Trust the script exit code; skip the ZenML status check")
	rootCmd.Flags().String("python", "python", "Python interpreter used to run exercises")
	rootCmd.Flags().String("zenml", "zenml", "zenml CLI used for status checks")
	rootCmd.Flags().Bool("skip-checks", false, "Skip the ZenML environment checks at startup")
	rootCmd.Flags().String("log-file", "", "Write debug logs to this file (overrides ZENLINGS_LOG)")
	rootCmd.Flags().String("log-level", "info", "Log level: trace, debug, info, warn, error")

	rootCmd.PersistentFlags().String("path", "", "Pack root (default: discovered by walking up from the current directory)")
	rootCmd.PersistentFlags().String("db", "", "Path to the history database (overrides ZENLINGS_DB)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the history database path using --db (highest
// priority), then ZENLINGS_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return history.DefaultPath()
}

// resolvePackRoot returns the pack root from --path, or discovers it by
// walking up from the current directory looking for info.toml.
func resolvePackRoot(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("path"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("pack root %s: %w", p, err)
		}
		return p, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	root, err := exercise.FindPackRoot(wd)
	if err != nil {
		return "", fmt.Errorf("%w\n\nRun zenlings inside a pack, or pass --path", err)
	}
	return root, nil
}
