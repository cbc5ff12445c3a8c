package handler

import (
	"context"
	"time"

	. "todoref/internal/adapter/http/helper"
	"todoref/internal/core/domain"
	"todoref/internal/core/model/response"
	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"
	. "todoref/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	StreamViewActive    = "active"
	StreamViewAll       = "all"
	StreamViewSelection = "selection"

	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// StreamMessage is one snapshot pushed to a websocket client.
type StreamMessage struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

// StreamHandler keeps websocket clients in sync with the store. Each client
// gets the current snapshot on connect and then every change. A slow client
// only ever receives the latest snapshot.
type StreamHandler struct {
	svc      port.TodoService
	Logger   *config.AppLogger
	metrics  *telemetry.AppMetrics
	upgrader websocket.Upgrader
}

func NewStreamHandler(svc port.TodoService, logger *config.AppLogger, metrics *telemetry.AppMetrics) *StreamHandler {
	return &StreamHandler{
		svc:     svc,
		Logger:  loggerOrNop(logger),
		metrics: metrics,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: streamWriteTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	view := c.DefaultQuery("view", StreamViewActive)

	switch view {
	case StreamViewActive, StreamViewAll, StreamViewSelection:
	default:
		SendBadRequestError(c, "view", "view must be active, all or selection")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		h.Logger.WarnWithTrace(c.Request.Context(), "Websocket upgrade failed", zap.Error(err))
		return
	}

	defer conn.Close()

	if h.metrics != nil {
		h.metrics.StreamClientConnected()
		defer h.metrics.StreamClientDisconnected()
	}

	err = StreamSpanWrapper(c.Request.Context(), view, func(ctx context.Context) error {
		return h.serve(ctx, conn, view)
	})

	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.Logger.WarnWithTrace(c.Request.Context(), "Stream closed", zap.String("view", view), zap.Error(err))
	}
}

func (h *StreamHandler) serve(ctx context.Context, conn *websocket.Conn, view string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	latest := make(chan StreamMessage, 1)

	unsubscribe := h.subscribe(view, func(message StreamMessage) {
		select {
		case <-latest:
		default:
		}

		latest <- message
	})
	defer unsubscribe()

	readErr := make(chan error, 1)

	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		case message := <-latest:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))

			if err := conn.WriteJSON(message); err != nil {
				return err
			}
		case <-ping.C:
			deadline := time.Now().Add(streamWriteTimeout)

			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return err
			}
		}
	}
}

func (h *StreamHandler) subscribe(view string, push func(StreamMessage)) func() {
	switch view {
	case StreamViewAll:
		return h.svc.SubscribeAll(func(todos []domain.Todo) {
			push(StreamMessage{View: view, Data: response.NewTodoListResponse(todos)})
		})
	case StreamViewSelection:
		return h.svc.SubscribeSelection(func(todo *domain.Todo) {
			var data *response.TodoResponse

			if todo != nil {
				selected := response.NewTodoResponse(*todo)
				data = &selected
			}

			push(StreamMessage{View: view, Data: data})
		})
	default:
		return h.svc.SubscribeActive(func(todos []domain.Todo) {
			push(StreamMessage{View: view, Data: response.NewTodoListResponse(todos)})
		})
	}
}

