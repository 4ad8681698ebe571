package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/pdxmph/taskflow/internal/task"
)

// dueDateLayout is the format the due date field accepts
const dueDateLayout = "2006-01-02"

// Add form field indices
const (
	FormFieldTitle = iota
	FormFieldDescription
	FormFieldPriority
	FormFieldCategory
	FormFieldDue
	FormFieldCount // Total number of fields
)

// addForm holds the add-task overlay's inputs. Priority and category are
// picked from their lists rather than typed.
type addForm struct {
	inputs   []textinput.Model // indexed by field; the picker slots are unused
	field    int
	priority int // index into task.Priorities
	category int // index into task.Categories
}

func newAddForm() addForm {
	inputs := make([]textinput.Model, FormFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 200

		switch i {
		case FormFieldTitle:
			inputs[i].Placeholder = "What needs doing?"
		case FormFieldDescription:
			inputs[i].Placeholder = "Optional details"
			inputs[i].CharLimit = 1000
		case FormFieldDue:
			inputs[i].Placeholder = "YYYY-MM-DD (optional)"
			inputs[i].CharLimit = len(dueDateLayout)
		}
	}

	f := addForm{inputs: inputs}
	f.reset()
	return f
}

// reset clears the inputs and restores the default medium/work selection
func (f *addForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.field = FormFieldTitle
	f.priority = indexOfPriority(task.PriorityMedium)
	f.category = 0
	f.inputs[FormFieldTitle].Focus()
}

// isPicker reports whether the field is chosen with left/right
func isPicker(field int) bool {
	return field == FormFieldPriority || field == FormFieldCategory
}

// move focuses the field delta steps away, stopping at either end
func (f *addForm) move(delta int) {
	next := f.field + delta
	if next < 0 || next >= FormFieldCount {
		return
	}
	if !isPicker(f.field) {
		f.inputs[f.field].Blur()
	}
	f.field = next
	if !isPicker(f.field) {
		f.inputs[f.field].Focus()
	}
}

// cycle moves the current picker selection
func (f *addForm) cycle(delta int) {
	switch f.field {
	case FormFieldPriority:
		f.priority = wrap(f.priority+delta, len(task.Priorities))
	case FormFieldCategory:
		f.category = wrap(f.category+delta, len(task.Categories))
	}
}

// build turns the form into a NewTask. The title check runs here so the user
// gets feedback without a round trip through the store.
func (f addForm) build(loc *time.Location) (task.NewTask, string) {
	title := strings.TrimSpace(f.inputs[FormFieldTitle].Value())
	if title == "" {
		return task.NewTask{}, "Title is required"
	}

	n := task.NewTask{
		Title:       title,
		Description: strings.TrimSpace(f.inputs[FormFieldDescription].Value()),
		Priority:    task.Priorities[f.priority],
		Category:    task.Categories[f.category],
	}

	if raw := strings.TrimSpace(f.inputs[FormFieldDue].Value()); raw != "" {
		due, err := time.ParseInLocation(dueDateLayout, raw, loc)
		if err != nil {
			return task.NewTask{}, "Due date must look like " + dueDateLayout
		}
		n.DueDate = &due
	}

	return n, ""
}

func indexOfPriority(p task.Priority) int {
	for i, known := range task.Priorities {
		if known == p {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
