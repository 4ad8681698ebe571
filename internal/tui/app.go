// Package tui is the terminal front end: a list of tasks with a detail pane,
// a stats header and modal overlays for search, add, edit and confirmations.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pdxmph/taskflow/internal/config"
	"github.com/pdxmph/taskflow/internal/session"
	"github.com/pdxmph/taskflow/internal/store"
	"github.com/pdxmph/taskflow/internal/task"
	"github.com/pdxmph/taskflow/internal/telemetry"
)

// mode is the screen the model is currently showing
type mode int

const (
	modeList mode = iota
	modeLogin
	modeSearch
	modeAdd
	modeEdit
	modeConfirmDelete
	modeConfirmClear
)

// Options are the collaborators the model drives
type Options struct {
	Store     *store.Store
	Sessions  *session.Manager // nil skips the login screen
	Telemetry telemetry.Emitter
	Features  config.FeaturesConfig
	Logger    *zap.Logger
	Notice    string // shown in the status line at startup
	Now       func() time.Time
}

// Model represents the main application state
type Model struct {
	store     *store.Store
	sessions  *session.Manager
	telemetry telemetry.Emitter
	features  config.FeaturesConfig
	logger    *zap.Logger
	now       func() time.Time

	tasks    []task.Task // current derived view
	selected int
	width    int
	height   int
	mode     mode

	user *session.User

	search    textinput.Model
	login     textinput.Model
	loginName textinput.Model

	form addForm

	editID          string
	editField       int
	editTitle       textinput.Model
	editDescription textarea.Model

	pendingID string // task awaiting delete confirmation

	status    string
	statusErr bool
}

// New creates a new application model
func New(opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, errors.New("tui needs a task store")
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Nop()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Setup search input
	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.Width = 30
	si.CharLimit = 100
	si.Prompt = "/ "
	si.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	si.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	si.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	li := textinput.New()
	li.Placeholder = "you@example.com"
	li.Width = 40
	li.CharLimit = 254
	li.Prompt = "Email: "

	ln := textinput.New()
	ln.Placeholder = "optional"
	ln.Width = 40
	ln.CharLimit = 100
	ln.Prompt = "Name:  "

	et := textinput.New()
	et.Width = 50
	et.CharLimit = 200
	et.Placeholder = "Title"

	ed := textarea.New()
	ed.Placeholder = "Description"
	ed.SetHeight(4)
	ed.SetWidth(50)
	ed.CharLimit = 1000
	ed.ShowLineNumbers = false

	m := &Model{
		store:           opts.Store,
		sessions:        opts.Sessions,
		telemetry:       opts.Telemetry,
		features:        opts.Features,
		logger:          opts.Logger.Named("tui"),
		now:             opts.Now,
		search:          si,
		login:           li,
		loginName:       ln,
		form:            newAddForm(),
		editTitle:       et,
		editDescription: ed,
	}
	m.search.SetValue(opts.Store.SearchQuery())

	if opts.Notice != "" {
		m.setError(opts.Notice)
	}

	if m.sessions != nil {
		u, ok, err := m.sessions.Current()
		if err != nil {
			return nil, fmt.Errorf("reading session: %w", err)
		}
		if ok {
			m.user = &u
			m.telemetry.Identify(u.ID, telemetry.Props{"email": u.Email, "name": u.Name})
		} else {
			m.mode = modeLogin
			m.login.Focus()
		}
	}

	m.refresh()
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.mode == modeLogin {
		return textinput.Blink
	}
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.search.Width = m.width/2 - 6
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeConfirmClear:
			return m.updateConfirmClear(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

// refresh re-derives the visible tasks from the store
func (m *Model) refresh() {
	m.tasks = m.store.FilteredTasks()
	m.selected = m.ensureValidSelection()
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	if len(m.tasks) == 0 {
		return 0
	}
	if m.selected >= len(m.tasks) {
		return len(m.tasks) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

// current returns the selected task
func (m Model) current() (task.Task, bool) {
	if len(m.tasks) == 0 || m.selected >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

// report surfaces a store error. Validation problems are shown as they are;
// anything else is a storage failure and the change only lives in memory.
func (m *Model) report(err error) bool {
	if err == nil {
		return false
	}
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		m.setError("%s", verr.Error())
		return true
	}
	m.logger.Warn("store operation failed", zap.Error(err))
	m.setError("Not saved: %v", err)
	return true
}
