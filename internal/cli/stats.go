package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.store.Stats()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Total:      %d\n", s.Total)
	fmt.Fprintf(out, "Active:     %d\n", s.Active)
	fmt.Fprintf(out, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(out, "Done:       %.1f%%\n", s.CompletionRate)

	fmt.Fprintln(out, "\nBy priority:")
	for _, p := range task.Priorities {
		fmt.Fprintf(out, "  %-8s %d\n", p, s.ByPriority[p])
	}
	fmt.Fprintln(out, "\nBy category:")
	for _, c := range task.Categories {
		fmt.Fprintf(out, "  %-8s %d\n", c, s.ByCategory[c])
	}
	return nil
}
