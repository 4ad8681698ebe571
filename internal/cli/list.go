package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/store"
	"github.com/pdxmph/taskflow/internal/task"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List prints the tasks in display order: active before completed, then by
priority, newest first. Without flags the filter and search saved by the
interactive view apply.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("filter", "", "Status filter: all, active or completed")
	listCmd.Flags().String("search", "", "Only tasks whose title or description contains this text")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	filter := e.store.Filter()
	if cmd.Flags().Changed("filter") {
		raw, _ := cmd.Flags().GetString("filter")
		filter = task.Filter(raw)
		if err := task.ValidateFilter(filter); err != nil {
			return err
		}
	}
	search := e.store.SearchQuery()
	if cmd.Flags().Changed("search") {
		search, _ = cmd.Flags().GetString("search")
	}

	out := cmd.OutOrStdout()
	if e.notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", e.notice)
	}

	tasks := store.Query(e.store.Tasks(), filter, search)
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	fmt.Fprintf(out, "Tasks (%d) [%s]\n\n", len(tasks), filter)
	now := time.Now()
	for _, t := range tasks {
		printTask(out, t, now)
	}
	return nil
}

// printTask writes one task line, plus its description indented
func printTask(out io.Writer, t task.Task, now time.Time) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	line := fmt.Sprintf("%s %-6s %-8s %s", check, t.Priority, t.Category, t.Title)
	if t.DueDate != nil {
		line += "  due " + t.DueDate.Format("2006-01-02")
		if !t.Completed && t.IsOverdue(now) {
			line += " (overdue)"
		}
	}
	fmt.Fprintf(out, "%s  %s\n", line, shortID(t.ID))

	if t.Description != "" {
		for _, l := range strings.Split(t.Description, "\n") {
			fmt.Fprintf(out, "      %s\n", strings.TrimSpace(l))
		}
	}
}

// shortID trims uuids to their first block for display
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 && len(id) == 36 {
		return id[:i]
	}
	return id
}
