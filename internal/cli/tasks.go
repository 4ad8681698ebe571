package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/store"
	"github.com/pdxmph/taskflow/internal/task"
	"github.com/pdxmph/taskflow/internal/telemetry"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task completed, or active again",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCompletedCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClearCompleted,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved tasks and return to the sample list",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	addCmd.Flags().String("description", "", "Longer description")
	addCmd.Flags().String("priority", string(task.PriorityMedium), "Priority: low, medium or high")
	addCmd.Flags().String("category", string(task.CategoryWork), "Category: work, personal, shopping, health or other")
	addCmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
}

func runAdd(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetString("priority")
	category, _ := cmd.Flags().GetString("category")
	dueRaw, _ := cmd.Flags().GetString("due")

	n := task.NewTask{
		Title:       strings.Join(args, " "),
		Description: description,
		Priority:    task.Priority(priority),
		Category:    task.Category(category),
	}
	if dueRaw != "" {
		due, err := time.ParseInLocation("2006-01-02", dueRaw, time.Local)
		if err != nil {
			return fmt.Errorf("parsing --due: %w", err)
		}
		n.DueDate = &due
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireReadable(); err != nil {
		return err
	}

	added, err := e.store.AddTask(n)
	if err != nil {
		return err
	}
	e.emit(telemetry.EventTaskCreated, telemetry.Props{
		"task_id":  added.ID,
		"priority": string(added.Priority),
		"category": string(added.Category),
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", added.Title, added.ID)
	return nil
}

// resolve finds a task by full id or unique id prefix
func resolve(s *store.Store, ref string) (task.Task, error) {
	if t, err := s.Task(ref); err == nil {
		return t, nil
	}

	var matches []task.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", store.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("id prefix %q matches %d tasks", ref, len(matches))
	}
}

func runToggle(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireReadable(); err != nil {
		return err
	}

	t, err := resolve(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.ToggleTask(t.ID); err != nil {
		return err
	}

	event, state := telemetry.EventTaskCompleted, "completed"
	if t.Completed {
		event, state = telemetry.EventTaskUncompleted, "active"
	}
	e.emit(event, telemetry.Props{"task_id": t.ID})

	fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", t.Title, state)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireReadable(); err != nil {
		return err
	}

	t, err := resolve(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DeleteTask(t.ID); err != nil {
		return err
	}
	e.emit(telemetry.EventTaskDeleted, telemetry.Props{"task_id": t.ID})

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", t.Title)
	return nil
}

func runClearCompleted(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireReadable(); err != nil {
		return err
	}

	count := e.store.Stats().Completed
	if err := e.store.ClearCompleted(); err != nil {
		return err
	}
	e.emit(telemetry.EventCompletedCleared, telemetry.Props{"count": count})

	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed tasks\n", count)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.Reset(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved tasks cleared; %d sample tasks loaded\n", len(e.store.Tasks()))
	return nil
}
