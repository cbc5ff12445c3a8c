package http

import (
	"context"
	"fmt"
	"time"

	cachemem "todoref/internal/adapter/cache/memory"
	cacheredis "todoref/internal/adapter/cache/redis"
	"todoref/internal/adapter/database/memory"
	"todoref/internal/adapter/http/handler"
	"todoref/internal/adapter/http/middleware"
	"todoref/internal/adapter/http/routes"
	"todoref/internal/core/domain"
	"todoref/internal/core/port"
	"todoref/internal/core/service"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"
)

type Container struct {
	Store       *memory.TodoStore
	TodoService port.TodoService
	Cache       port.CacheRepository

	ListHandler      *handler.ListHandler
	DetailHandler    *handler.DetailHandler
	SelectionHandler *handler.SelectionHandler
	StreamHandler    *handler.StreamHandler

	metrics       *telemetry.AppMetrics
	unsubscribers []func()
}

func NewContainer(ctx context.Context, appConfig *config.AppConfig, logger *config.AppLogger, probe port.Telemetry, metrics *telemetry.AppMetrics) (*Container, error) {
	store := memory.NewTodoStoreFromConfig(appConfig)
	todoSvc := service.NewTodoService(store, probe, metrics)

	cache, err := newCache(ctx, appConfig)

	if err != nil {
		return nil, err
	}

	return &Container{
		Store:       store,
		TodoService: todoSvc,
		Cache:       cache,

		ListHandler:      handler.NewListHandler(todoSvc, logger),
		DetailHandler:    handler.NewDetailHandler(todoSvc, logger),
		SelectionHandler: handler.NewSelectionHandler(todoSvc, logger),
		StreamHandler:    handler.NewStreamHandler(todoSvc, logger, metrics),

		metrics: metrics,
	}, nil
}

func newCache(ctx context.Context, appConfig *config.AppConfig) (port.CacheRepository, error) {
	if appConfig.CacheBackend != config.CacheBackendRedis {
		return cachemem.NewCache(5*time.Minute, 10*time.Minute), nil
	}

	cache, err := cacheredis.NewCache(appConfig.RedisURL)

	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := cache.Ping(pingCtx); err != nil {
		cache.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return cache, nil
}

func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		ListHandler:      c.ListHandler,
		DetailHandler:    c.DetailHandler,
		SelectionHandler: c.SelectionHandler,
		StreamHandler:    c.StreamHandler,
	}
}

// Observe keeps the todos gauge and the response cache in step with the
// store. The subscriber runs under the store's writer lock, so it only bumps
// the cache generation; backend deletes happen on a separate goroutine that
// ends with ctx. The subscription ends with Close.
func (c *Container) Observe(ctx context.Context, responseCache *middleware.ResponseCache) {
	if responseCache != nil {
		go responseCache.RunInvalidation(ctx)
	}

	c.unsubscribers = append(c.unsubscribers, c.TodoService.SubscribeAll(func(todos []domain.Todo) {
		if c.metrics != nil {
			c.metrics.ObserveTodos(todos)
		}

		if responseCache != nil {
			responseCache.Invalidate()
		}
	}))
}

func (c *Container) Close() error {
	for _, unsubscribe := range c.unsubscribers {
		unsubscribe()
	}

	c.unsubscribers = nil

	return c.Cache.Close()
}
