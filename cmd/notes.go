package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorbrain/internal/store"
)

var notesCmd = &cobra.Command{
	Use:   "notes <student-id>",
	Short: "List recent engine notes for a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		notes, err := s.Notes().RecentByStudent(context.Background(), args[0], limit)
		if err != nil {
			return fmt.Errorf("query notes: %w", err)
		}

		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}

		fmt.Printf("%-19s  %-12s  %-7s  %-3s  %s\n",
			"Created", "Type", "Prio", "Act", "Text")
		fmt.Println(strings.Repeat("─", 100))
		for _, n := range notes {
			act := " "
			if n.Actionable {
				act = "*"
			}
			fmt.Printf("%-19s  %-12s  %-7s  %-3s  %s\n",
				n.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				n.Type, n.Priority, act, n.Text)
		}
		return nil
	},
}

func init() {
	notesCmd.Flags().IntP("limit", "n", 20, "Number of notes to show")
}
