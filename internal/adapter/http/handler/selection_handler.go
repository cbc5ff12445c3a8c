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

// SelectionHandler exposes the selected-item handoff between views.
type SelectionHandler struct {
	svc    port.TodoService
	Logger *config.AppLogger
}

func NewSelectionHandler(svc port.TodoService, logger *config.AppLogger) *SelectionHandler {
	return &SelectionHandler{
		svc:    svc,
		Logger: loggerOrNop(logger),
	}
}

func (h *SelectionHandler) Show(c *gin.Context) {
	todo, ok := h.svc.Selected(c.Request.Context())

	if !ok {
		SendNotFoundError(c, "no todo selected")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (h *SelectionHandler) Select(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.selection.Select", []attribute.KeyValue{
		attribute.String("handler.operation", "Select"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	todo, err := h.svc.Select(ctx, id)

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (h *SelectionHandler) Clear(c *gin.Context) {
	h.svc.ClearSelection(c.Request.Context())
	c.Status(http.StatusNoContent)
}
