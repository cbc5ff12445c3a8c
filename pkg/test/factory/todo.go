package factory

import (
	fab "github.com/Goldziher/fabricator"

	"todoref/internal/core/domain"
)

type todoFields struct {
	Title       string
	Description string
}

// NewTodoDraft builds a draft with random, non-blank text. Overrides use the
// field names, e.g. map[string]any{"Title": "Buy milk"}.
func NewTodoDraft(customData ...map[string]any) domain.TodoDraft {
	instance := fab.New(todoFields{})

	fields := instance.Build(customData...)

	if fields.Title == "" {
		fields.Title = "Untitled"
	}

	if fields.Description == "" {
		fields.Description = "No description"
	}

	return domain.TodoDraft{
		Title:       fields.Title,
		Description: fields.Description,
	}
}
