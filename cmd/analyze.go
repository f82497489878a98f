package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/logging"
	"tutorbrain/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <student-id>",
	Short: "Rebuild and print a student's full learning state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID := args[0]

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

		svc := brain.NewService(brain.DefaultConfig(), s.Skills(), s.Attempts(), s.Sessions(), log)
		state := svc.AnalyzeStudent(context.Background(), studentID)

		printState(state)
		return nil
	},
}

func printState(state *brain.StudentState) {
	sep := strings.Repeat("─", 80)

	fmt.Printf("Student: %s  (analyzed %s)\n", state.StudentID,
		state.GeneratedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println(sep)

	if len(state.Skills) == 0 {
		fmt.Println("No skills recorded yet.")
	} else {
		fmt.Printf("%-20s  %-10s  %7s  %8s  %s\n",
			"Skill", "Trend", "Mastery", "Vel/wk", "Struggling")
		fmt.Println(sep)
		for _, sk := range state.Skills {
			struggling := "-"
			if len(sk.Struggling) > 0 {
				struggling = strings.Join(sk.Struggling, ", ")
			}
			fmt.Printf("%-20s  %-10s  %6.0f%%  %+8.1f  %s\n",
				sk.ID, sk.Trend, sk.Mastery, sk.Velocity, struggling)
		}
	}

	fmt.Println()
	fmt.Printf("Velocity: %+.1f points/week (%s)", state.Velocity.Overall, state.Velocity.Trend)
	if state.Velocity.PredictedBurnout {
		fmt.Print("  [burnout risk]")
	}
	fmt.Println()

	if len(state.Patterns) > 0 {
		fmt.Println("\nPatterns:")
		for _, p := range state.Patterns {
			fmt.Printf("  %-36s  conf %3.0f  %s  (%dx)\n",
				p.Pattern, p.Confidence, p.Impact, p.Occurrences)
		}
	}

	if len(state.Interventions) > 0 {
		fmt.Println("\nInterventions (most important first):")
		for i, iv := range state.Interventions {
			target := iv.SkillID
			if target == "" {
				target = "all skills"
			}
			fmt.Printf("  %d. %-22s  %-6s  impact %3.0f  %s\n",
				i+1, iv.Type, iv.Priority, iv.EstimatedImpact, target)
			fmt.Printf("     %s\n", iv.Reason)
		}
	}
}
