package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoref/internal/core/domain"
)

// detailModel holds the edit draft. Nothing reaches the store until the
// draft is saved.
type detailModel struct {
	id          string
	title       textinput.Model
	description textinput.Model
	status      domain.TodoStatus
	focus       int
	err         string
}

func newDetail(id string, todo domain.Todo) detailModel {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "What needs doing?"
	title.CharLimit = 255
	title.SetValue(todo.Title)
	title.Focus()

	description := textinput.New()
	description.Prompt = ""
	description.Placeholder = "Details"
	description.CharLimit = 1000
	description.SetValue(todo.Description)

	return detailModel{
		id:          id,
		title:       title,
		description: description,
		status:      todo.Status,
	}
}

func (d detailModel) isNew() bool {
	return d.id == domain.NewTodoID
}

func (d detailModel) draft() domain.TodoDraft {
	return domain.TodoDraft{
		Title:       d.title.Value(),
		Description: d.description.Value(),
		Status:      domain.StatusPtr(d.status),
	}
}

func (d detailModel) switchFocus() detailModel {
	d.focus = (d.focus + 1) % 2

	if d.focus == 0 {
		d.title.Focus()
		d.description.Blur()
	} else {
		d.description.Focus()
		d.title.Blur()
	}

	return d
}

func (d detailModel) toggleStatus() detailModel {
	d.status = d.status.Toggled()
	return d
}

func (d detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	var cmd tea.Cmd

	if d.focus == 0 {
		d.title, cmd = d.title.Update(msg)
	} else {
		d.description, cmd = d.description.Update(msg)
	}

	d.err = ""

	return d, cmd
}

func (d detailModel) view() string {
	heading := "Edit todo"

	if d.isNew() {
		heading = "New todo"
	}

	status := pendingStyle.Render(d.status.String())

	if d.status == domain.TodoStatusDone {
		status = successStyle.Render(d.status.String())
	}

	lines := []string{
		titleStyle.Render(heading),
		"",
		labelStyle.Render("Title") + d.title.View(),
		labelStyle.Render("Description") + d.description.View(),
		labelStyle.Render("Status") + status,
	}

	if d.err != "" {
		lines = append(lines, "", errorStyle.Render(d.err))
	}

	lines = append(lines, "", helpStyle.Render("tab switch field • ctrl+t toggle status • ctrl+s save • esc cancel"))

	return strings.Join(lines, "\n")
}

func validationMessage(err error) string {
	var blank *domain.ValidationError

	if errors.As(err, &blank) {
		return strings.Join(blank.Fields, " and ") + " must not be blank"
	}

	return err.Error()
}
