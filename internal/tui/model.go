package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/benvon/simple-todo/internal/client"
	"github.com/benvon/simple-todo/internal/logger"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// TodoAPI is the part of the HTTP client the list view drives
type TodoAPI interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	Update(ctx context.Context, req client.UpdateRequest) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

var _ TodoAPI = (*client.Client)(nil)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirm
)

// Results of the API commands. Each carries the error, if any, so Update can decide
// whether to resync.
type (
	todosLoadedMsg struct {
		todos []models.Todo
		err   error
	}
	todoCreatedMsg struct {
		err error
	}
	todoUpdatedMsg struct {
		id   string
		edit bool
		err  error
	}
	todoDeletedMsg struct {
		id  string
		err error
	}
	todosClearedMsg struct {
		count int64
		err   error
	}
)

type actionKind int

const (
	actionDelete actionKind = iota
	actionClearAll
)

// pendingAction is a destructive request waiting on confirmation
type pendingAction struct {
	kind  actionKind
	id    string
	title string
}

func (a pendingAction) prompt() (title, description string) {
	if a.kind == actionClearAll {
		return "Delete all todos?", "Every todo on the server will be removed."
	}
	return "Delete this todo?", a.title
}

// Model is the bubbletea model for the todo list. It mirrors the server's list and
// re-fetches it after every successful mutation.
type Model struct {
	api    TodoAPI
	logger *zap.Logger
	theme  Theme
	keys   keyMap
	help   help.Model

	todos  []models.Todo
	cursor int

	mode     mode
	input    textinput.Model
	creating bool
	spinner  spinner.Model

	editID string
	edit   textinput.Model

	confirmForm  *huh.Form
	confirmValue bool
	pending      *pendingAction
}

// New creates the list model
func New(api TodoAPI, theme Theme, l *zap.Logger) *Model {
	if l == nil {
		l = zap.NewNop()
	}

	input := textinput.New()
	input.Prompt = "+ "
	input.Placeholder = theme.Placeholder
	input.CharLimit = 500

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 500

	return &Model{
		api:     api,
		logger:  l,
		theme:   theme,
		keys:    defaultKeyMap(),
		help:    help.New(),
		todos:   []models.Todo{},
		input:   input,
		edit:    edit,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Todos returns the list as last fetched from the server
func (m *Model) Todos() []models.Todo {
	return m.todos
}

// Init loads the list
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		return m, m.handleLoaded(msg)
	case todoCreatedMsg:
		return m, m.handleCreated(msg)
	case todoUpdatedMsg:
		return m, m.handleUpdated(msg)
	case todoDeletedMsg:
		return m, m.handleDeleted(msg)
	case todosClearedMsg:
		return m, m.handleCleared(msg)
	case spinner.TickMsg:
		if !m.creating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	if m.mode == modeConfirm {
		return m, m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocused(msg)
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		return m, m.updateAdd(keyMsg)
	case modeEdit:
		return m, m.updateEdit(keyMsg)
	default:
		return m, m.updateBrowse(keyMsg)
	}
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m.input.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			done := !t.Done
			return m.update(client.UpdateRequest{ID: t.ID, Done: &done}, false)
		}
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit(m.cursor)
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m.askConfirm(pendingAction{kind: actionDelete, id: t.ID, title: t.Title})
		}
	case key.Matches(msg, m.keys.ClearAll):
		if len(m.todos) > 0 {
			return m.askConfirm(pendingAction{kind: actionClearAll})
		}
	}
	return nil
}

func (m *Model) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title := strings.TrimSpace(m.input.Value())
		if title == "" || m.creating {
			return nil
		}
		m.creating = true
		return tea.Batch(m.create(title), m.spinner.Tick)
	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyTab:
		m.mode = modeBrowse
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title := strings.TrimSpace(m.edit.Value())
		if title == "" {
			return nil
		}
		return m.update(client.UpdateRequest{ID: m.editID, Title: &title}, true)
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return nil
	case msg.Type == tea.KeyUp:
		return m.startEdit(m.cursor - 1)
	case msg.Type == tea.KeyDown:
		return m.startEdit(m.cursor + 1)
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return cmd
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeConfirm()
		return nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		action, confirmed := m.pending, m.confirmValue
		m.closeConfirm()
		if !confirmed || action == nil {
			return nil
		}
		if action.kind == actionClearAll {
			return m.deleteAll()
		}
		return m.delete(action.id)
	case huh.StateAborted:
		m.closeConfirm()
		return nil
	}
	return cmd
}

// updateFocused forwards non-key messages (cursor blink) to whichever input has focus
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd:
		m.input, cmd = m.input.Update(msg)
	case modeEdit:
		m.edit, cmd = m.edit.Update(msg)
	}
	return cmd
}

// startEdit copies the title at index into the edit buffer. Any buffer already
// open for another row is discarded.
func (m *Model) startEdit(index int) tea.Cmd {
	if index < 0 || index >= len(m.todos) {
		return nil
	}
	m.cursor = index
	m.editID = m.todos[index].ID
	m.edit.SetValue(m.todos[index].Title)
	m.edit.CursorEnd()
	m.mode = modeEdit
	m.input.Blur()
	return m.edit.Focus()
}

func (m *Model) stopEdit() {
	m.editID = ""
	m.edit.Reset()
	m.edit.Blur()
	m.mode = modeBrowse
}

func (m *Model) askConfirm(action pendingAction) tea.Cmd {
	title, description := action.prompt()
	m.pending = &action
	m.confirmValue = false
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.confirmValue),
		),
	).WithTheme(m.theme.FormTheme).WithShowHelp(false)
	m.mode = modeConfirm
	return m.confirmForm.Init()
}

func (m *Model) closeConfirm() {
	m.confirmForm = nil
	m.pending = nil
	m.confirmValue = false
	m.mode = modeBrowse
}

func (m *Model) handleLoaded(msg todosLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logFailure("failed_to_fetch_todos", msg.err)
		return nil
	}
	m.todos = msg.todos
	if m.todos == nil {
		m.todos = []models.Todo{}
	}
	m.moveCursor(0)
	if m.mode == modeEdit && m.indexOf(m.editID) < 0 {
		m.stopEdit()
	}
	return nil
}

func (m *Model) handleCreated(msg todoCreatedMsg) tea.Cmd {
	m.creating = false
	if msg.err != nil {
		m.logFailure("failed_to_create_todo", msg.err)
		return nil
	}
	m.input.Reset()
	return m.fetch()
}

func (m *Model) handleUpdated(msg todoUpdatedMsg) tea.Cmd {
	if msg.err != nil {
		m.logFailure("failed_to_update_todo", msg.err, zap.String("todo_id", logger.SanitizeID(msg.id)))
		return nil
	}
	if msg.edit && m.mode == modeEdit && m.editID == msg.id {
		m.stopEdit()
	}
	return m.fetch()
}

func (m *Model) handleDeleted(msg todoDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.logFailure("failed_to_delete_todo", msg.err, zap.String("todo_id", logger.SanitizeID(msg.id)))
		return nil
	}
	return m.fetch()
}

func (m *Model) handleCleared(msg todosClearedMsg) tea.Cmd {
	if msg.err != nil {
		m.logFailure("failed_to_delete_all_todos", msg.err)
		return nil
	}
	m.logger.Info("todos_cleared", zap.Int64("deleted_count", msg.count))
	return m.fetch()
}

func (m *Model) logFailure(event string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Int("status", client.StatusCode(err)),
		zap.String("error", logger.SanitizeError(err)),
	)
	m.logger.Error(event, fields...)
}

func (m *Model) fetch() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		todos, err := api.List(context.Background())
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (m *Model) create(title string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		_, err := api.Create(context.Background(), title)
		return todoCreatedMsg{err: err}
	}
}

func (m *Model) update(req client.UpdateRequest, edit bool) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		_, err := api.Update(context.Background(), req)
		return todoUpdatedMsg{id: req.ID, edit: edit, err: err}
	}
}

func (m *Model) delete(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		return todoDeletedMsg{id: id, err: api.Delete(context.Background(), id)}
	}
}

func (m *Model) deleteAll() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		n, err := api.DeleteAll(context.Background())
		return todosClearedMsg{count: n, err: err}
	}
}

func (m *Model) selected() (models.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return models.Todo{}, false
	}
	return m.todos[m.cursor], true
}

// moveCursor shifts the cursor by delta and clamps it to the list
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) indexOf(id string) int {
	for i, t := range m.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Summary is the footer line for todos
func Summary(todos []models.Todo) string {
	completed := 0
	for _, t := range todos {
		if t.Done {
			completed++
		}
	}
	return fmt.Sprintf("Total: %d | Completed: %d | Remaining: %d", len(todos), completed, len(todos)-completed)
}

// View implements tea.Model
func (m *Model) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.HeadingStyle.Render(t.Heading))
	b.WriteString("\n")

	label := t.AddLabel
	if m.creating {
		label = m.spinner.View() + " " + t.AddingLabel
	}
	b.WriteString(t.InputStyle.Render(m.input.View() + "  " + label))
	b.WriteString("\n")

	if len(m.todos) == 0 {
		b.WriteString(t.EmptyStyle.Render(t.EmptyText))
	} else {
		for i, todo := range m.todos {
			b.WriteString(m.renderRow(i, todo))
			b.WriteString("\n")
		}
		b.WriteString(t.FooterStyle.Render(Summary(m.todos)))
	}
	b.WriteString("\n")

	if m.mode == modeConfirm && m.confirmForm != nil {
		b.WriteString("\n")
		b.WriteString(m.confirmForm.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString(m.help.View(inputHelp{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) renderRow(i int, todo models.Todo) string {
	t := m.theme
	active := i == m.cursor && m.mode != modeAdd

	prefix := strings.Repeat(" ", lipgloss.Width(t.Cursor))
	if active {
		prefix = t.Cursor
	}

	box := t.Unchecked
	if todo.Done {
		box = t.CheckStyle.Render(t.Checked)
	}

	if m.mode == modeEdit && todo.ID == m.editID {
		return prefix + box + " " + m.edit.View()
	}

	style := t.ItemStyle
	if todo.Done {
		style = t.DoneStyle
	}
	if active {
		style = style.Inherit(t.SelectedStyle)
	}
	return prefix + box + " " + style.Render(todo.Title)
}
