package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"todoref/internal/core/domain"
	"todoref/internal/core/port"
)

type screen int

const (
	listScreen screen = iota
	detailScreen
)

type todosMsg []domain.Todo

type openedMsg struct {
	id   string
	todo domain.Todo
}

type savedMsg struct {
	todo    domain.Todo
	created bool
}

type errMsg struct {
	err error
}

// Model is the terminal shell: a list screen of active todos and a detail
// screen editing one draft.
type Model struct {
	ctx    context.Context
	svc    port.TodoService
	screen screen
	list   list.Model
	detail detailModel
	status string
	width  int
	height int
}

func NewModel(ctx context.Context, svc port.TodoService) Model {
	return Model{
		ctx:  ctx,
		svc:  svc,
		list: newTodoList(svc.ListActive(ctx)),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case todosMsg:
		index := m.list.Index()
		cmd := m.list.SetItems(toItems(msg))
		m.list.Title = listTitle(msg)

		if index >= len(msg) {
			index = len(msg) - 1
		}

		if index >= 0 {
			m.list.Select(index)
		}

		return m, cmd
	case openedMsg:
		m.screen = detailScreen
		m.detail = newDetail(msg.id, msg.todo)
		m.status = ""
		return m, nil
	case savedMsg:
		m.screen = listScreen
		m.status = "saved " + msg.todo.Title

		if msg.created {
			m.status = "created " + msg.todo.Title
		}

		m.svc.ClearSelection(m.ctx)
		return m, nil
	case errMsg:
		if m.screen == detailScreen {
			m.detail.err = validationMessage(msg.err)
			return m, nil
		}

		m.status = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.screen == detailScreen {
			return m.updateDetail(msg)
		}

		return m.updateList(msg)
	}

	if m.screen == detailScreen {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		return m, m.open(domain.NewTodoID)
	case "enter":
		if todo, ok := m.current(); ok {
			return m, m.open(todo.ID)
		}

		return m, nil
	case " ":
		if todo, ok := m.current(); ok {
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.ToggleStatus(ctx, todo.ID)
				return err
			})
		}

		return m, nil
	case "d":
		if todo, ok := m.current(); ok {
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.SoftDelete(ctx, todo.ID)
				return err
			})
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = listScreen
		m.status = ""
		m.svc.ClearSelection(m.ctx)
		return m, nil
	case "tab", "shift+tab":
		m.detail = m.detail.switchFocus()
		return m, nil
	case "ctrl+t":
		m.detail = m.detail.toggleStatus()
		return m, nil
	case "ctrl+s":
		draft := m.detail.draft()

		if err := draft.Validate(); err != nil {
			m.detail.err = validationMessage(err)
			return m, nil
		}

		return m, m.save(m.detail.id, draft)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.update(msg)
	return m, cmd
}

func (m Model) current() (domain.Todo, bool) {
	item, ok := m.list.SelectedItem().(listItem)

	if !ok {
		return domain.Todo{}, false
	}

	return item.todo, true
}

// open loads the detail screen by id. The sentinel id opens a blank draft.
func (m Model) open(id string) tea.Cmd {
	ctx, svc := m.ctx, m.svc

	return func() tea.Msg {
		if id == domain.NewTodoID {
			return openedMsg{id: id}
		}

		todo, err := svc.Select(ctx, id)

		if err != nil {
			return errMsg{err: err}
		}

		return openedMsg{id: id, todo: todo}
	}
}

func (m Model) save(id string, draft domain.TodoDraft) tea.Cmd {
	ctx, svc := m.ctx, m.svc

	return func() tea.Msg {
		todo, created, err := svc.Save(ctx, id, draft)

		if err != nil {
			return errMsg{err: err}
		}

		return savedMsg{todo: todo, created: created}
	}
}

func (m Model) mutate(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx

	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err: err}
		}

		return nil
	}
}

func (m Model) View() string {
	if m.screen == detailScreen {
		return panelStyle.Render(m.detail.view())
	}

	content := m.list.View()

	if m.status != "" {
		content += "\n" + accentStyle.Render(m.status)
	}

	return panelStyle.Render(content)
}

// subscribe forwards active-list snapshots to send. The store is never
// blocked by a slow terminal: only the newest pending snapshot is kept.
func subscribe(ctx context.Context, svc port.TodoService, send func(tea.Msg)) func() {
	latest := make(chan []domain.Todo, 1)
	done := make(chan struct{})

	unsubscribe := svc.SubscribeActive(func(todos []domain.Todo) {
		select {
		case <-latest:
		default:
		}

		latest <- todos
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case todos := <-latest:
				send(todosMsg(todos))
			}
		}
	}()

	return func() {
		unsubscribe()
		close(done)
	}
}

// Run starts the terminal shell and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, svc port.TodoService, opts ...tea.ProgramOption) error {
	program := tea.NewProgram(NewModel(ctx, svc), append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	unsubscribe := subscribe(ctx, svc, program.Send)
	defer unsubscribe()

	_, err := program.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
