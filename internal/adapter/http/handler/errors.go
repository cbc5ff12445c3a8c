package handler

import (
	"errors"

	. "todoref/internal/adapter/http/helper"
	"todoref/internal/core/domain"
	"todoref/pkg/config"
	. "todoref/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// sendServiceError maps service errors onto the JSON error envelope.
func sendServiceError(c *gin.Context, span trace.Span, logger *config.AppLogger, err error) {
	AddSpanError(span, err)

	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		logger.WarnWithTrace(ctx, "Todo not found", zap.Error(err), zap.String("id", c.Param("id")))
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrBlankField):
		SendValidationError(c, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		SendConflictError(c, "status", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		SendBadRequestError(c, "status", err.Error())
	default:
		logger.ErrorWithTrace(ctx, "Unexpected service error", zap.Error(err))
		SendInternalError(c, "Unexpected error")
	}
}

func loggerOrNop(logger *config.AppLogger) *config.AppLogger {
	if logger == nil {
		return config.NewNopLogger()
	}

	return logger
}
