package response

import (
	"time"

	"todoref/internal/core/domain"
)

type TodoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreationDate time.Time `json:"creation_date"`
}

type TodoListResponse struct {
	Size int            `json:"size"`
	Data []TodoResponse `json:"data"`
}

// DraftResponse is what GET /todos/new returns: the blank form of the
// detail view.
type DraftResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:           todo.ID,
		Title:        todo.Title,
		Description:  todo.Description,
		Status:       todo.Status.String(),
		CreationDate: todo.CreationDate,
	}
}

func NewTodoListResponse(todos []domain.Todo) TodoListResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return TodoListResponse{
		Size: len(data),
		Data: data,
	}
}

func NewDraftResponse() DraftResponse {
	return DraftResponse{
		ID:     domain.NewTodoID,
		Status: domain.TodoStatusOpen.String(),
	}
}
