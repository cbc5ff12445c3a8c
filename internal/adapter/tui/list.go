package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"todoref/internal/core/domain"
)

// listItem adapts a todo to bubbles/list.Item.
type listItem struct {
	todo domain.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return i.todo.Description }
func (i listItem) FilterValue() string { return i.todo.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)

	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title

	if it.todo.Status == domain.TodoStatusDone {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "

	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}

	fmt.Fprintln(w, prefix+box+" "+text)
}

var (
	openKey   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	newKey    = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

func newTodoList(todos []domain.Todo) list.Model {
	l := list.New(toItems(todos), itemDelegate{}, 80, 20)

	l.Title = listTitle(todos)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")

	bindings := func() []key.Binding { return []key.Binding{openKey, newKey, toggleKey, deleteKey} }
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return l
}

func toItems(todos []domain.Todo) []list.Item {
	items := make([]list.Item, 0, len(todos))

	for _, todo := range todos {
		items = append(items, listItem{todo: todo})
	}

	return items
}

func listTitle(todos []domain.Todo) string {
	done := 0

	for _, todo := range todos {
		if todo.Status == domain.TodoStatusDone {
			done++
		}
	}

	return fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(todos)-done,
	)
}
