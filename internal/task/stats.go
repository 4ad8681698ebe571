package task

// Stats aggregates counts over a task collection
type Stats struct {
	Total          int
	Active         int
	Completed      int
	ByPriority     map[Priority]int
	ByCategory     map[Category]int
	CompletionRate float64 // percentage, 0 when Total is 0
}

// CalculateStats derives Stats from tasks. It only reads its input.
func CalculateStats(tasks []Task) Stats {
	stats := Stats{
		Total:      len(tasks),
		ByPriority: make(map[Priority]int, len(Priorities)),
		ByCategory: make(map[Category]int, len(Categories)),
	}
	for _, p := range Priorities {
		stats.ByPriority[p] = 0
	}
	for _, c := range Categories {
		stats.ByCategory[c] = 0
	}

	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
		if _, ok := stats.ByPriority[t.Priority]; ok {
			stats.ByPriority[t.Priority]++
		}
		if _, ok := stats.ByCategory[t.Category]; ok {
			stats.ByCategory[t.Category]++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}
