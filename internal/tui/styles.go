package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/taskflow/internal/task"
)

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	overlayStyle = borderStyle.Copy().
			Padding(1).
			Background(lipgloss.Color("235"))
)

// priorityStyles colours a task's priority marker
var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
}
