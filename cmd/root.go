package cmd

import (
	"github.com/spf13/cobra"

	"tutorbrain/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tutorbrain",
	Short: "Adaptive learning analysis engine",
	Long:  "Tutorbrain: the analysis engine behind an adaptive tutoring app. It rebuilds each student's learning state from raw answer events, detects behavioral patterns, and decides remedial interventions.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TUTORBRAIN_DB env var)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TUTORBRAIN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
