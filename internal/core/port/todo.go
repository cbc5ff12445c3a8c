package port

import (
	"context"

	"todoref/internal/core/domain"
)

// TodoStore owns the todo collection and the selected item. Reads return
// copies; subscribers are called with the current snapshot on Subscribe and
// again after every committed mutation.
type TodoStore interface {
	List() []domain.Todo
	ListActive() []domain.Todo
	GetByID(id string) (domain.Todo, bool)
	Create(title, description string) domain.Todo
	CreateWithStatus(title, description string, status domain.TodoStatus) (domain.Todo, error)
	Update(id string, patch domain.TodoPatch) (domain.Todo, error)
	SoftDelete(id string) (domain.Todo, error)
	ToggleStatus(id string) (domain.Todo, error)

	Select(todo domain.Todo)
	ClearSelection()
	Selected() (domain.Todo, bool)

	SubscribeAll(fn func([]domain.Todo)) (unsubscribe func())
	SubscribeActive(fn func([]domain.Todo)) (unsubscribe func())
	SubscribeSelection(fn func(*domain.Todo)) (unsubscribe func())
}

type TodoService interface {
	List(ctx context.Context) []domain.Todo
	ListActive(ctx context.Context) []domain.Todo
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	Create(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) (domain.Todo, error)
	Save(ctx context.Context, id string, draft domain.TodoDraft) (todo domain.Todo, created bool, err error)
	SoftDelete(ctx context.Context, id string) (domain.Todo, error)
	ToggleStatus(ctx context.Context, id string) (domain.Todo, error)

	Select(ctx context.Context, id string) (domain.Todo, error)
	ClearSelection(ctx context.Context)
	Selected(ctx context.Context) (domain.Todo, bool)

	SubscribeAll(fn func([]domain.Todo)) (unsubscribe func())
	SubscribeActive(fn func([]domain.Todo)) (unsubscribe func())
	SubscribeSelection(fn func(*domain.Todo)) (unsubscribe func())
}
