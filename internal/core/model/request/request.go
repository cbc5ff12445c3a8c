package request

import "todoref/internal/core/domain"

// TodoRequest is the body of POST /todos and PUT /todos/:id.
type TodoRequest struct {
	Title       string             `json:"title" validate:"notblank"`
	Description string             `json:"description" validate:"notblank"`
	Status      *domain.TodoStatus `json:"status,omitempty"`
}

func (r TodoRequest) ToDraft() domain.TodoDraft {
	return domain.TodoDraft{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// TodoPatchRequest is the body of PATCH /todos/:id. Absent fields stay as
// they are.
type TodoPatchRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitnil,notblank"`
	Description *string            `json:"description,omitempty" validate:"omitnil,notblank"`
	Status      *domain.TodoStatus `json:"status,omitempty"`
}

func (r TodoPatchRequest) ToPatch() domain.TodoPatch {
	return domain.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}
