package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/taskflow/internal/task"
	"github.com/pdxmph/taskflow/internal/telemetry"
)

// updateList handles keys on the main list
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		if len(m.tasks) > 0 {
			m.selected = len(m.tasks) - 1
		}

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.store.SearchQuery())
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink

	case "esc":
		// Clear search and return to full list
		if m.store.SearchQuery() != "" {
			m.report(m.store.SetSearchQuery(""))
			m.search.Reset()
			m.refresh()
		}

	case "f":
		next := m.store.Filter().Next()
		if !m.report(m.store.SetFilter(next)) {
			m.setStatus("Showing %s tasks", next)
		}
		m.refresh()
		m.telemetry.Emit(telemetry.EventFilterChanged, telemetry.Props{"filter": string(next)})

	case "x", " ":
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.report(m.store.ToggleTask(t.ID))
		event := telemetry.EventTaskCompleted
		if t.Completed {
			event = telemetry.EventTaskUncompleted
		}
		m.telemetry.Emit(event, telemetry.Props{"task_id": t.ID, "priority": string(t.Priority)})
		m.refresh()

	case "a":
		m.mode = modeAdd
		m.form.reset()
		return m, textinput.Blink

	case "e":
		if !m.features.InlineEditing {
			m.setStatus("Inline editing is turned off")
			return m, nil
		}
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = t.ID
		m.editField = 0
		m.editTitle.SetValue(t.Title)
		m.editTitle.CursorEnd()
		m.editTitle.Focus()
		m.editDescription.SetValue(t.Description)
		m.editDescription.Blur()
		m.telemetry.Emit(telemetry.EventTaskEditStarted, telemetry.Props{"task_id": t.ID})
		return m, textinput.Blink

	case "d":
		if t, ok := m.current(); ok {
			m.mode = modeConfirmDelete
			m.pendingID = t.ID
		}

	case "C":
		if m.store.Stats().Completed == 0 {
			m.setStatus("No completed tasks to clear")
			return m, nil
		}
		m.mode = modeConfirmClear

	case "L":
		if m.sessions == nil {
			return m, nil
		}
		if m.report(m.sessions.Logout()) {
			return m, nil
		}
		m.telemetry.Emit(telemetry.EventUserLoggedOut, nil)
		m.telemetry.Reset()
		m.user = nil
		m.mode = modeLogin
		m.login.Reset()
		m.loginName.Reset()
		m.loginName.Blur()
		m.login.Focus()
		m.setStatus("Signed out")
		return m, textinput.Blink
	}

	return m, nil
}

// updateLogin handles the sign-in screen; tab moves between email and name
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.login.Focused() {
			m.login.Blur()
			m.loginName.Focus()
		} else {
			m.loginName.Blur()
			m.login.Focus()
		}
		return m, textinput.Blink
	case "enter":
		u, err := m.sessions.Login(m.login.Value(), m.loginName.Value())
		if err != nil {
			m.setError("%v", err)
			return m, nil
		}
		m.user = &u
		m.mode = modeList
		m.login.Blur()
		m.loginName.Blur()
		m.telemetry.Identify(u.ID, telemetry.Props{"email": u.Email, "name": u.Name})
		m.telemetry.Emit(telemetry.EventUserLoggedIn, nil)
		m.setStatus("Signed in as %s", u.Email)
		return m, nil
	}

	var cmd tea.Cmd
	if m.loginName.Focused() {
		m.loginName, cmd = m.loginName.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// updateSearch narrows the list as the user types
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.search.Reset()
		m.search.Blur()
		m.report(m.store.SetSearchQuery(""))
		m.refresh()
		return m, nil
	case "enter":
		m.mode = modeList
		m.search.Blur()
		if q := m.store.SearchQuery(); q != "" {
			m.telemetry.Emit(telemetry.EventTasksSearched, telemetry.Props{
				"query_length": len(q),
				"results":      len(m.tasks),
			})
		}
		return m, nil
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if q := m.search.Value(); q != m.store.SearchQuery() {
		m.report(m.store.SetSearchQuery(q))
		m.refresh()
	}
	return m, cmd
}

// updateAdd drives the add-task form
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.form.reset()
		return m, nil

	case "tab", "down":
		m.form.move(1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.form.move(-1)
		return m, textinput.Blink

	case "left", "right":
		if isPicker(m.form.field) {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.form.cycle(delta)
			return m, nil
		}

	case "enter":
		n, problem := m.form.build(m.now().Location())
		if problem != "" {
			m.setError("%s", problem)
			return m, nil
		}

		added, err := m.store.AddTask(n)
		if isValidation(err) {
			m.report(err)
			return m, nil
		}
		if !m.report(err) {
			m.setStatus("Added %q", added.Title)
		}

		m.telemetry.Emit(telemetry.EventTaskCreated, telemetry.Props{
			"task_id":         added.ID,
			"priority":        string(added.Priority),
			"category":        string(added.Category),
			"has_description": added.Description != "",
			"has_due_date":    added.DueDate != nil,
		})

		m.mode = modeList
		m.form.reset()
		m.refresh()
		m.selectID(added.ID)
		return m, nil
	}

	if isPicker(m.form.field) {
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.field], cmd = m.form.inputs[m.form.field].Update(msg)
	return m, cmd
}

// updateEdit drives inline editing of title and description
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editTitle.Blur()
		m.editDescription.Blur()
		m.telemetry.Emit(telemetry.EventTaskEditCancelled, telemetry.Props{"task_id": m.editID})
		m.editID = ""
		return m, nil

	case "tab", "shift+tab":
		if m.editField == 0 {
			m.editField = 1
			m.editTitle.Blur()
			m.editDescription.Focus()
			return m, textarea.Blink
		}
		m.editField = 0
		m.editDescription.Blur()
		m.editTitle.Focus()
		return m, textinput.Blink

	case "ctrl+s":
		title := strings.TrimSpace(m.editTitle.Value())
		if title == "" {
			m.setError("Title is required")
			return m, nil
		}
		description := strings.TrimSpace(m.editDescription.Value())

		err := m.store.UpdateTask(m.editID, task.Patch{Title: &title, Description: &description})
		if isValidation(err) {
			m.report(err)
			return m, nil
		}
		if !m.report(err) {
			m.setStatus("Saved %q", title)
		}

		m.telemetry.Emit(telemetry.EventTaskEdited, telemetry.Props{"task_id": m.editID})
		m.mode = modeList
		m.editTitle.Blur()
		m.editDescription.Blur()
		m.editID = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	if m.editField == 0 {
		// Enter in the single-line title saves too
		if msg.String() == "enter" {
			return m.updateEdit(tea.KeyMsg{Type: tea.KeyCtrlS})
		}
		m.editTitle, cmd = m.editTitle.Update(msg)
	} else {
		m.editDescription, cmd = m.editDescription.Update(msg)
	}
	return m, cmd
}

// updateConfirmDelete deletes on y; any other key cancels
func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingID
	m.mode = modeList
	m.pendingID = ""

	switch msg.String() {
	case "y", "Y":
		if !m.report(m.store.DeleteTask(id)) {
			m.setStatus("Task deleted")
		}
		m.telemetry.Emit(telemetry.EventTaskDeleted, telemetry.Props{"task_id": id})
		m.refresh()
	}
	return m, nil
}

// updateConfirmClear clears completed tasks on y; any other key cancels
func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList

	switch msg.String() {
	case "y", "Y":
		count := m.store.Stats().Completed
		if !m.report(m.store.ClearCompleted()) {
			m.setStatus("Cleared %d completed tasks", count)
		}
		m.telemetry.Emit(telemetry.EventCompletedCleared, telemetry.Props{"count": count})
		m.refresh()
	}
	return m, nil
}

// selectID moves the selection onto the task with id, if visible
func (m *Model) selectID(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.selected = i
			return
		}
	}
}

func isValidation(err error) bool {
	var verr *task.ValidationError
	return errors.As(err, &verr)
}
