package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/llm"
	"tutorbrain/internal/logging"
	"tutorbrain/internal/remediation"
	"tutorbrain/internal/store"
	"tutorbrain/internal/triggers"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Run the weekly deep analysis for a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		every, _ := cmd.Flags().GetDuration("every")
		if studentID == "" {
			return fmt.Errorf("--student is required")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		log := logging.New()
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		analyzer := brain.NewService(brain.DefaultConfig(), s.Skills(), s.Attempts(), s.Sessions(), log)

		// Content generation is optional; without a configured provider
		// the weekly run still records decisions as notes.
		var generator triggers.Generator
		if provider, err := llm.NewProviderFromEnv(ctx, s.LLMEvents()); err != nil {
			log.Info("no content provider configured, skipping generation", zap.Error(err))
		} else {
			generator = remediation.NewService(provider, remediation.DefaultConfig(), log)
		}

		trig := triggers.NewService(s.Notes(), s.Attempts(), analyzer, generator, log)

		trig.RunWeeklyAnalysis(ctx, studentID)
		if every <= 0 {
			return nil
		}

		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				trig.RunWeeklyAnalysis(ctx, studentID)
			}
		}
	},
}

func init() {
	weeklyCmd.Flags().String("student", "", "Student ID to analyze")
	weeklyCmd.Flags().Duration("every", 0, "Repeat on this interval (e.g. 168h); 0 runs once")
}
