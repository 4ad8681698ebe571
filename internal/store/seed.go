package store

import (
	"time"

	"github.com/pdxmph/taskflow/internal/task"
)

// SeedTasks returns the sample collection shown to first-run users.
// Dates are placed relative to now so the sample stays meaningful.
func SeedTasks(now time.Time) []task.Task {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysAgo := func(n int) time.Time { return today.AddDate(0, 0, -n) }
	ptr := func(t time.Time) *time.Time { return &t }

	return []task.Task{
		{
			ID:          "1",
			Title:       "Set up TaskFlow",
			Description: "Pick a config location and run taskflow init",
			Priority:    task.PriorityHigh,
			Category:    task.CategoryWork,
			CreatedAt:   daysAgo(2),
		},
		{
			ID:        "2",
			Title:     "Review the keyboard shortcuts",
			Priority:  task.PriorityMedium,
			Category:  task.CategoryWork,
			CreatedAt: daysAgo(2),
		},
		{
			ID:          "3",
			Title:       "Install TaskFlow",
			Completed:   true,
			Priority:    task.PriorityHigh,
			Category:    task.CategoryWork,
			CreatedAt:   daysAgo(3),
			CompletedAt: ptr(daysAgo(2)),
		},
		{
			ID:        "4",
			Title:     "Buy groceries",
			Priority:  task.PriorityLow,
			Category:  task.CategoryShopping,
			DueDate:   ptr(today.AddDate(0, 0, 3)),
			CreatedAt: daysAgo(1),
		},
		{
			ID:          "5",
			Title:       "Morning workout",
			Completed:   true,
			Priority:    task.PriorityMedium,
			Category:    task.CategoryHealth,
			CreatedAt:   daysAgo(1),
			CompletedAt: ptr(daysAgo(1)),
		},
	}
}
