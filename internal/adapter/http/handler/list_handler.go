package handler

import (
	"net/http"

	. "todoref/internal/adapter/http/helper"
	"todoref/internal/core/model/response"
	"todoref/internal/core/port"
	"todoref/pkg/config"
	. "todoref/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ScopeActive = "active"
	ScopeAll    = "all"
)

// ListHandler serves the list view: the visible todos and the row actions.
type ListHandler struct {
	svc    port.TodoService
	Logger *config.AppLogger
}

func NewListHandler(svc port.TodoService, logger *config.AppLogger) *ListHandler {
	return &ListHandler{
		svc:    svc,
		Logger: loggerOrNop(logger),
	}
}

// Index lists the active todos.
func (h *ListHandler) Index(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.list.Index", []attribute.KeyValue{
		attribute.String("handler.operation", "Index"),
	})
	defer span.End()

	todos := h.svc.ListActive(ctx)

	span.SetAttributes(attribute.Int("todo.count", len(todos)))

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

// List returns active todos, or every record including deleted ones with
// scope=all.
func (h *ListHandler) List(c *gin.Context) {
	scope := c.DefaultQuery("scope", ScopeActive)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.list.List", []attribute.KeyValue{
		attribute.String("handler.operation", "List"),
		attribute.String("todo.scope", scope),
	})
	defer span.End()

	switch scope {
	case ScopeActive:
		c.JSON(http.StatusOK, response.NewTodoListResponse(h.svc.ListActive(ctx)))
	case ScopeAll:
		c.JSON(http.StatusOK, response.NewTodoListResponse(h.svc.List(ctx)))
	default:
		SendBadRequestError(c, "scope", "scope must be active or all")
	}
}

func (h *ListHandler) Toggle(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.list.Toggle", []attribute.KeyValue{
		attribute.String("handler.operation", "Toggle"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	todo, err := h.svc.ToggleStatus(ctx, id)

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (h *ListHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.list.Delete", []attribute.KeyValue{
		attribute.String("handler.operation", "Delete"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	todo, err := h.svc.SoftDelete(ctx, id)

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo), "Todo deleted successfully")
}
