package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pdxmph/taskflow/internal/task"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task and the current stats to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("format", "json", "Output format: json or yaml")
}

// exportDoc is the export file layout
type exportDoc struct {
	ExportedAt time.Time    `json:"exportedAt" yaml:"exported_at"`
	Stats      exportStats  `json:"stats" yaml:"stats"`
	Tasks      []exportTask `json:"tasks" yaml:"tasks"`
}

type exportStats struct {
	Total          int            `json:"total" yaml:"total"`
	Active         int            `json:"active" yaml:"active"`
	Completed      int            `json:"completed" yaml:"completed"`
	CompletionRate float64        `json:"completionRate" yaml:"completion_rate"`
	ByPriority     map[string]int `json:"byPriority" yaml:"by_priority"`
	ByCategory     map[string]int `json:"byCategory" yaml:"by_category"`
}

type exportTask struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Priority    string     `json:"priority" yaml:"priority"`
	Category    string     `json:"category" yaml:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	doc := buildExport(e.store.Tasks(), time.Now())
	return writeExport(cmd.OutOrStdout(), doc, format)
}

func buildExport(tasks []task.Task, now time.Time) exportDoc {
	s := task.CalculateStats(tasks)
	doc := exportDoc{
		ExportedAt: now,
		Stats: exportStats{
			Total:          s.Total,
			Active:         s.Active,
			Completed:      s.Completed,
			CompletionRate: s.CompletionRate,
			ByPriority:     make(map[string]int, len(s.ByPriority)),
			ByCategory:     make(map[string]int, len(s.ByCategory)),
		},
		Tasks: make([]exportTask, 0, len(tasks)),
	}
	for p, n := range s.ByPriority {
		doc.Stats.ByPriority[string(p)] = n
	}
	for c, n := range s.ByCategory {
		doc.Stats.ByCategory[string(c)] = n
	}

	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, exportTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    string(t.Priority),
			Category:    string(t.Category),
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		})
	}
	return doc
}

func writeExport(w io.Writer, doc exportDoc, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
