package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoref/internal/core/domain"
	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
)

const serviceName = "todo"

type TodoService struct {
	store     port.TodoStore
	telemetry port.Telemetry
	metrics   *telemetry.AppMetrics
}

var _ port.TodoService = (*TodoService)(nil)

func NewTodoService(store port.TodoStore, probe port.Telemetry, metrics *telemetry.AppMetrics) *TodoService {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	return &TodoService{
		store:     store,
		telemetry: probe,
		metrics:   metrics,
	}
}

func (ts *TodoService) List(ctx context.Context) []domain.Todo {
	var todos []domain.Todo

	ts.observe(ctx, "List", nil, func(ctx context.Context) error {
		todos = ts.store.List()
		return nil
	})

	return todos
}

func (ts *TodoService) ListActive(ctx context.Context) []domain.Todo {
	var todos []domain.Todo

	ts.observe(ctx, "ListActive", nil, func(ctx context.Context) error {
		todos = ts.store.ListActive()
		return nil
	})

	return todos
}

func (ts *TodoService) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "GetByID", map[string]interface{}{"todo.id": id}, func(ctx context.Context) error {
		found, ok := ts.store.GetByID(id)

		if !ok {
			return fmt.Errorf("get %q: %w", id, domain.ErrTodoNotFound)
		}

		todo = found
		return nil
	})

	return todo, err
}

// Create validates and trims the draft before handing it to the store. A
// draft that asks for done is created done in a single store change.
func (ts *TodoService) Create(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "Create", nil, func(ctx context.Context) error {
		if err := draft.Validate(); err != nil {
			return err
		}

		if draft.Status != nil && *draft.Status == domain.TodoStatusDeleted {
			return fmt.Errorf("create: %w: new todos cannot be deleted", domain.ErrInvalidTransition)
		}

		draft = draft.Trimmed()

		if draft.Status == nil {
			todo = ts.store.Create(draft.Title, draft.Description)
		} else {
			created, err := ts.store.CreateWithStatus(draft.Title, draft.Description, *draft.Status)

			if err != nil {
				return fmt.Errorf("create: %w", err)
			}

			todo = created
		}

		ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", todo.ID, todo.ToMap())
		return nil
	})

	return todo, err
}

func (ts *TodoService) Update(ctx context.Context, id string, patch domain.TodoPatch) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "Update", map[string]interface{}{"todo.id": id}, func(ctx context.Context) error {
		if err := patch.Validate(); err != nil {
			return err
		}

		updated, err := ts.store.Update(id, patch.Trimmed())

		if err != nil {
			return err
		}

		todo = updated
		ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", todo.ID, todo.ToMap())
		return nil
	})

	return todo, err
}

// Save commits a detail-view draft: the NewTodoID sentinel creates a record,
// any other id updates the existing one.
func (ts *TodoService) Save(ctx context.Context, id string, draft domain.TodoDraft) (domain.Todo, bool, error) {
	if id == domain.NewTodoID {
		todo, err := ts.Create(ctx, draft)
		return todo, err == nil, err
	}

	if err := draft.Validate(); err != nil {
		return domain.Todo{}, false, err
	}

	todo, err := ts.Update(ctx, id, domain.TodoPatch{
		Title:       &draft.Title,
		Description: &draft.Description,
		Status:      draft.Status,
	})

	return todo, false, err
}

func (ts *TodoService) SoftDelete(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "SoftDelete", map[string]interface{}{"todo.id": id}, func(ctx context.Context) error {
		deleted, err := ts.store.SoftDelete(id)

		if err != nil {
			return err
		}

		todo = deleted
		ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", todo.ID, nil)
		return nil
	})

	return todo, err
}

func (ts *TodoService) ToggleStatus(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "ToggleStatus", map[string]interface{}{"todo.id": id}, func(ctx context.Context) error {
		toggled, err := ts.store.ToggleStatus(id)

		if err != nil {
			return err
		}

		todo = toggled
		ts.telemetry.RecordBusinessEvent(ctx, "toggled", "todo", todo.ID, map[string]interface{}{
			"status": todo.Status.String(),
		})
		return nil
	})

	return todo, err
}

// Select looks the record up by id and makes it the selected item.
func (ts *TodoService) Select(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "Select", map[string]interface{}{"todo.id": id}, func(ctx context.Context) error {
		found, ok := ts.store.GetByID(id)

		if !ok {
			return fmt.Errorf("select %q: %w", id, domain.ErrTodoNotFound)
		}

		ts.store.Select(found)
		todo = found
		return nil
	})

	return todo, err
}

func (ts *TodoService) ClearSelection(ctx context.Context) {
	ts.observe(ctx, "ClearSelection", nil, func(ctx context.Context) error {
		ts.store.ClearSelection()
		return nil
	})
}

func (ts *TodoService) Selected(ctx context.Context) (domain.Todo, bool) {
	return ts.store.Selected()
}

func (ts *TodoService) SubscribeAll(fn func([]domain.Todo)) func() {
	return ts.store.SubscribeAll(fn)
}

func (ts *TodoService) SubscribeActive(fn func([]domain.Todo)) func() {
	return ts.store.SubscribeActive(fn)
}

func (ts *TodoService) SubscribeSelection(fn func(*domain.Todo)) func() {
	return ts.store.SubscribeSelection(fn)
}

func (ts *TodoService) observe(ctx context.Context, operation string, attrs map[string]interface{}, fn func(context.Context) error) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
	}

	if err != nil && !isDomainError(err) {
		ts.telemetry.RecordError(ctx, serviceName+"."+operation, err, attrs)
	}

	ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)

	if ts.metrics != nil {
		ts.metrics.RecordTodoOperation(ctx, operation, err)
	}

	return err
}

// isDomainError reports whether err is one of the outcomes callers are
// expected to handle, as opposed to a store failure.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrTodoNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrBlankField) ||
		errors.Is(err, domain.ErrInvalidStatus)
}
