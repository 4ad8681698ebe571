package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pdxmph/taskflow/internal/task"
)

const dateLayout = "Mon Jan 2, 2006"

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case modeLogin:
		return m.renderOverlay(m.renderLogin())
	case modeAdd:
		return m.renderOverlay(m.renderAddForm())
	case modeEdit:
		return m.renderOverlay(m.renderEdit())
	case modeConfirmDelete:
		return m.renderOverlay(m.renderConfirmDelete())
	case modeConfirmClear:
		return m.renderOverlay(m.renderConfirmClear())
	}

	// Calculate pane widths
	listWidth := m.width / 2
	detailWidth := m.width - listWidth - 4 // account for borders
	paneHeight := m.height - 7            // stats, status and help lines

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(listWidth).Height(paneHeight).Render(m.renderList(listWidth, paneHeight)),
		borderStyle.Width(detailWidth).Height(paneHeight).Render(m.renderDetail(detailWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStats(),
		content,
		m.renderStatus(),
		m.renderHelp(),
	)
}

// renderStats renders the two-line statistics header
func (m Model) renderStats() string {
	s := m.store.Stats()

	summary := fmt.Sprintf(" %s  Total %d • Active %d • Completed %d • %.0f%% done",
		headerStyle.Render("TaskFlow"), s.Total, s.Active, s.Completed, s.CompletionRate)
	if m.user != nil {
		summary += labelStyle.Render("  (" + m.user.Email + ")")
	}

	var parts []string
	for _, p := range task.Priorities {
		parts = append(parts, priorityStyles[p].Render(string(p))+fmt.Sprintf(" %d", s.ByPriority[p]))
	}
	var cats []string
	for _, c := range task.Categories {
		cats = append(cats, fmt.Sprintf("%s %d", c, s.ByCategory[c]))
	}
	breakdown := " " + strings.Join(parts, "  ") + labelStyle.Render("  │  ") + strings.Join(cats, "  ")

	return summary + "\n" + breakdown
}

// renderList renders the task list
func (m Model) renderList(width, height int) string {
	var lines []string

	if m.mode == modeSearch {
		lines = append(lines, m.search.View(), "")
		height -= 2
	}

	// Header
	header := fmt.Sprintf("Tasks (%d) [%s]", len(m.tasks), m.store.Filter())
	if q := m.store.SearchQuery(); q != "" && m.mode != modeSearch {
		header += labelStyle.Render(fmt.Sprintf(" search: %q", q))
	}
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	if len(m.tasks) == 0 {
		lines = append(lines, "", labelStyle.Render("  No tasks. Press a to add one."))
		return strings.Join(lines, "\n")
	}

	// Calculate visible range
	visibleHeight := height - 2
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	now := m.now()
	for i := startIdx; i < len(m.tasks) && i < startIdx+visibleHeight; i++ {
		t := m.tasks[i]

		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		marker := " "
		if !t.Completed && t.IsOverdue(now) {
			marker = "!"
		}

		title := t.Title
		if t.Completed {
			title = completedStyle.Render(title)
		}

		if i == m.selected {
			line := fmt.Sprintf("%s%s %s %s [%s]", marker, check, priorityMarker(t.Priority), t.Title, t.Category)
			lines = append(lines, selectedStyle.Render(line))
			continue
		}

		if marker == "!" {
			marker = overdueStyle.Render(marker)
		}
		line := fmt.Sprintf("%s%s %s %s %s", marker, check,
			priorityStyles[t.Priority].Render(priorityMarker(t.Priority)),
			title, labelStyle.Render("["+string(t.Category)+"]"))
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderDetail renders the selected task
func (m Model) renderDetail(width int) string {
	t, ok := m.current()
	if !ok {
		return "No task selected"
	}

	var lines []string
	lines = append(lines, headerStyle.Render(t.Title))
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))
	lines = append(lines, "")

	status := "Active"
	if t.Completed {
		status = "Completed"
	}
	lines = append(lines, fmt.Sprintf("Status:    %s", status))
	lines = append(lines, fmt.Sprintf("Priority:  %s", priorityStyles[t.Priority].Render(string(t.Priority))))
	lines = append(lines, fmt.Sprintf("Category:  %s", t.Category))

	if t.DueDate != nil {
		due := t.DueDate.Format(dateLayout)
		if !t.Completed && t.IsOverdue(m.now()) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		lines = append(lines, fmt.Sprintf("Due:       %s", due))
	}
	lines = append(lines, fmt.Sprintf("Created:   %s", t.CreatedAt.Format(dateLayout)))
	if t.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("Completed: %s", t.CompletedAt.Format(dateLayout)))
	}

	if t.Description != "" {
		lines = append(lines, "", "Description:")
		lines = append(lines, wordwrap.String(t.Description, max(width-4, 10)))
	}

	return strings.Join(lines, "\n")
}

// renderStatus renders the status line
func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return " " + errorStyle.Render(m.status)
	}
	return " " + statusStyle.Render(m.status)
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.mode == modeSearch {
		return " Type to search • ↑/↓: navigate • Enter: confirm • Esc: clear"
	}

	help := " j/k: navigate • x: toggle • a: add"
	if m.features.InlineEditing {
		help += " • e: edit"
	}
	help += " • d: delete • /: search • f: filter • C: clear done"
	if m.store.SearchQuery() != "" {
		help += " • Esc: clear search"
	}
	if m.sessions != nil {
		help += " • L: sign out"
	}
	help += " • q: quit"
	return help
}

// renderLogin renders the sign-in prompt
func (m Model) renderLogin() string {
	lines := []string{
		headerStyle.Render("Sign in to TaskFlow"),
		"",
		m.login.View(),
		m.loginName.View(),
		"",
	}
	if m.status != "" {
		lines = append(lines, m.renderStatus(), "")
	}
	lines = append(lines, "Tab: next field • Enter: sign in • Esc: quit")
	return strings.Join(lines, "\n")
}

// renderAddForm renders the add-task overlay
func (m Model) renderAddForm() string {
	var lines []string
	lines = append(lines, headerStyle.Render("New Task"))
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	fieldLabels := []string{
		"Title:       ",
		"Description: ",
		"Priority:    ",
		"Category:    ",
		"Due:         ",
	}

	for i, label := range fieldLabels {
		var value string
		switch i {
		case FormFieldPriority:
			value = pickerView(task.Priorities, m.form.priority, m.form.field == i)
		case FormFieldCategory:
			value = pickerView(task.Categories, m.form.category, m.form.field == i)
		default:
			value = m.form.inputs[i].View()
		}
		if i == m.form.field {
			label = selectedStyle.Render(label)
		}
		lines = append(lines, label+value)
	}

	lines = append(lines, "")
	if m.status != "" && m.statusErr {
		lines = append(lines, m.renderStatus(), "")
	}
	lines = append(lines, "Tab/↓: next • Shift+Tab/↑: prev • ←/→: choose • Enter: save • Esc: cancel")
	return strings.Join(lines, "\n")
}

// renderEdit renders the inline edit overlay
func (m Model) renderEdit() string {
	var lines []string
	lines = append(lines, headerStyle.Render("Edit Task"))
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")
	lines = append(lines, "Title:")
	lines = append(lines, m.editTitle.View())
	lines = append(lines, "")
	lines = append(lines, "Description:")
	lines = append(lines, m.editDescription.View())
	lines = append(lines, "")
	if m.status != "" && m.statusErr {
		lines = append(lines, m.renderStatus(), "")
	}
	lines = append(lines, "Tab: switch field • Ctrl+S: save • Esc: cancel")
	return strings.Join(lines, "\n")
}

// renderConfirmDelete renders the delete confirmation prompt
func (m Model) renderConfirmDelete() string {
	title := m.pendingID
	for _, t := range m.tasks {
		if t.ID == m.pendingID {
			title = t.Title
			break
		}
	}
	return fmt.Sprintf("Delete %q?\n\ny: confirm • any other key: cancel", title)
}

// renderConfirmClear renders the clear-completed confirmation prompt
func (m Model) renderConfirmClear() string {
	return fmt.Sprintf("Remove %d completed tasks?\n\ny: confirm • any other key: cancel", m.store.Stats().Completed)
}

// renderOverlay centers content in a bordered box
func (m Model) renderOverlay(content string) string {
	box := overlayStyle.Render(content)
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// pickerView shows the options with the chosen one highlighted
func pickerView[T ~string](options []T, chosen int, focused bool) string {
	var parts []string
	for i, o := range options {
		if i == chosen {
			if focused {
				parts = append(parts, selectedStyle.Render("["+string(o)+"]"))
			} else {
				parts = append(parts, "["+string(o)+"]")
			}
			continue
		}
		parts = append(parts, " "+string(o)+" ")
	}
	return strings.Join(parts, "")
}

func priorityMarker(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "▲"
	case task.PriorityMedium:
		return "●"
	default:
		return "▼"
	}
}
