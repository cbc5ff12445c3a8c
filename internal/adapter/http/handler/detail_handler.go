package handler

import (
	"net/http"

	. "todoref/internal/adapter/http/helper"
	"todoref/internal/core/domain"
	"todoref/internal/core/model/request"
	"todoref/internal/core/model/response"
	"todoref/internal/core/port"
	"todoref/pkg/config"
	. "todoref/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DetailHandler serves the detail view. The route id "new" stands for a
// record that does not exist yet.
type DetailHandler struct {
	svc    port.TodoService
	Logger *config.AppLogger
}

func NewDetailHandler(svc port.TodoService, logger *config.AppLogger) *DetailHandler {
	return &DetailHandler{
		svc:    svc,
		Logger: loggerOrNop(logger),
	}
}

func (h *DetailHandler) Show(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.detail.Show", []attribute.KeyValue{
		attribute.String("handler.operation", "Show"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	if id == domain.NewTodoID {
		SendSuccess(c, http.StatusOK, response.NewDraftResponse())
		return
	}

	todo, err := h.svc.GetByID(ctx, id)

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (h *DetailHandler) Create(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.detail.Create", []attribute.KeyValue{
		attribute.String("handler.operation", "Create"),
	})
	defer span.End()

	params, ok := BindAndValidate[request.TodoRequest](c)

	if !ok {
		return
	}

	todo, err := h.svc.Create(ctx, params.ToDraft())

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	h.Logger.InfoWithTrace(ctx, "Todo created", zap.String("id", todo.ID))

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

// Save commits the edit draft: 201 when it created a record, 200 otherwise.
func (h *DetailHandler) Save(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.detail.Save", []attribute.KeyValue{
		attribute.String("handler.operation", "Save"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	params, ok := BindAndValidate[request.TodoRequest](c)

	if !ok {
		return
	}

	todo, created, err := h.svc.Save(ctx, id, params.ToDraft())

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	status := http.StatusOK

	if created {
		status = http.StatusCreated
	}

	span.SetAttributes(attribute.Bool("todo.created", created))

	SendSuccess(c, status, response.NewTodoResponse(todo))
}

func (h *DetailHandler) Patch(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.detail.Patch", []attribute.KeyValue{
		attribute.String("handler.operation", "Patch"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	params, ok := BindAndValidate[request.TodoPatchRequest](c)

	if !ok {
		return
	}

	patch := params.ToPatch()

	if patch.IsEmpty() {
		SendBadRequestError(c, "request", "at least one of title, description or status is required")
		return
	}

	todo, err := h.svc.Update(ctx, id, patch)

	if err != nil {
		sendServiceError(c, span, h.Logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}
