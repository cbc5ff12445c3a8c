package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewTodoID is the route value that asks the detail view for a blank draft
// instead of an existing record.
const NewTodoID = "new"

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBlankField        = errors.New("field must not be blank")
	ErrInvalidStatus     = errors.New("invalid status")
)

type TodoStatus int

const (
	TodoStatusOpen TodoStatus = iota
	TodoStatusDone
	TodoStatusDeleted
)

var todoStatusNames = []string{"open", "done", "deleted"}

type Todo struct {
	ID           string
	Title        string
	Description  string
	CreationDate time.Time
	Status       TodoStatus
}

func (t Todo) IsDeleted() bool {
	return t.Status == TodoStatusDeleted
}

func (t Todo) IsActive() bool {
	return !t.IsDeleted()
}

func (t Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":            t.ID,
		"title":         t.Title,
		"description":   t.Description,
		"creation_date": t.CreationDate,
		"status":        t.Status.String(),
	}
}

func (s TodoStatus) String() string {
	if s < 0 || int(s) >= len(todoStatusNames) {
		return "unknown"
	}

	return todoStatusNames[s]
}

func (s TodoStatus) IsValid() bool {
	return s >= TodoStatusOpen && s <= TodoStatusDeleted
}

// Toggled flips open and done. Deleted stays deleted.
func (s TodoStatus) Toggled() TodoStatus {
	switch s {
	case TodoStatusOpen:
		return TodoStatusDone
	case TodoStatusDone:
		return TodoStatusOpen
	default:
		return s
	}
}

// CanTransitionTo reports whether a record in status s may move to next.
// Nothing leaves deleted.
func (s TodoStatus) CanTransitionTo(next TodoStatus) bool {
	if !next.IsValid() {
		return false
	}

	if s == TodoStatusDeleted {
		return next == TodoStatusDeleted
	}

	return true
}

func (s TodoStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}

	return []byte(s.String()), nil
}

func (s *TodoStatus) UnmarshalText(text []byte) error {
	status, err := ParseTodoStatus(string(text))

	if err != nil {
		return err
	}

	*s = status
	return nil
}

func ParseTodoStatus(status string) (TodoStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "open":
		return TodoStatusOpen, nil
	case "done":
		return TodoStatusDone, nil
	case "deleted":
		return TodoStatusDeleted, nil
	default:
		return -1, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// TodoDraft carries the editable fields of the detail view. It never has an
// id or a creation date; the store assigns those.
type TodoDraft struct {
	Title       string
	Description string
	Status      *TodoStatus
}

func (d TodoDraft) Validate() error {
	var fields []string

	if isBlank(d.Title) {
		fields = append(fields, "title")
	}

	if isBlank(d.Description) {
		fields = append(fields, "description")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if d.Status != nil && !d.Status.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, int(*d.Status))
	}

	return nil
}

func (d TodoDraft) Trimmed() TodoDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

// TodoPatch is a partial update; nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Status      *TodoStatus
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

func (p TodoPatch) Validate() error {
	var fields []string

	if p.Title != nil && isBlank(*p.Title) {
		fields = append(fields, "title")
	}

	if p.Description != nil && isBlank(*p.Description) {
		fields = append(fields, "description")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, int(*p.Status))
	}

	return nil
}

func (p TodoPatch) Trimmed() TodoPatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}

	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}

	return p
}

// Apply returns todo with the patch fields written over it.
func (p TodoPatch) Apply(todo Todo) (Todo, error) {
	if p.Status != nil && !todo.Status.CanTransitionTo(*p.Status) {
		return todo, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, todo.Status, *p.Status)
	}

	if p.Title != nil {
		todo.Title = *p.Title
	}

	if p.Description != nil {
		todo.Description = *p.Description
	}

	if p.Status != nil {
		todo.Status = *p.Status
	}

	return todo, nil
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBlankField, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrBlankField
}

func StatusPtr(s TodoStatus) *TodoStatus {
	return &s
}

func StringPtr(s string) *string {
	return &s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
