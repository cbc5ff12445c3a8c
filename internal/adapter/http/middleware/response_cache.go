package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"
	. "todoref/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "cache:"

// ResponseCache serves repeated GET requests from a CacheRepository. Keys
// carry a generation that Invalidate bumps, so a change to the todo
// collection retires every entry at once. Old entries are swept in the
// background by RunInvalidation.
type ResponseCache struct {
	store      port.CacheRepository
	source     string
	config     map[string]config.ResponseCacheConfig
	mutex      sync.RWMutex
	logger     *zap.Logger
	metrics    *telemetry.AppMetrics
	generation atomic.Uint64
	sweep      chan struct{}
}

type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewResponseCache(store port.CacheRepository, source string, configs map[string]config.ResponseCacheConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	copied := make(map[string]config.ResponseCacheConfig, len(configs))

	for path, value := range configs {
		copied[path] = value
	}

	return &ResponseCache{
		store:   store,
		source:  source,
		config:  copied,
		logger:  logger,
		metrics: metrics,
		sweep:   make(chan struct{}, 1),
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.FullPath()

		rc.mutex.RLock()
		cacheConfig, exists := rc.config[path]
		rc.mutex.RUnlock()

		if !exists || !cacheConfig.Enabled {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		generation := rc.generation.Load()
		cacheKey := rc.generateCacheKey(c, path, generation)

		if cached, ok := rc.lookup(ctx, cacheKey); ok {
			age := time.Since(cached.Timestamp)

			_, span := CreateChildSpan(ctx, "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.String("cache.age", age.String()),
				attribute.String("cache.source", rc.source),
				attribute.Int("cache.status_code", cached.StatusCode),
			})
			defer span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(ctx, path)
			}

			rc.logger.Debug("Cache hit",
				zap.String("path", path),
				zap.String("cache_key", cacheKey),
				zap.Duration("age", age))

			for key, values := range cached.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", age.Seconds()))

			c.Data(cached.StatusCode, "application/json; charset=utf-8", cached.Body)
			c.Abort()
			return
		}

		ctx, span := CreateChildSpan(ctx, "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
			attribute.String("cache.source", rc.source),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(ctx, path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Header("X-Cache", "MISS")

		c.Next()

		status := c.Writer.Status()

		if status < 200 || status >= 300 {
			return
		}

		// the body may predate a change that landed while it was rendered
		if rc.generation.Load() != generation {
			rc.logger.Debug("Cache store skipped, collection changed", zap.String("cache_key", cacheKey))
			return
		}

		headers := map[string][]string{}

		for key, values := range writer.Header() {
			if strings.HasPrefix(key, "X-Cache") || strings.HasPrefix(key, "X-Request-Id") || strings.HasPrefix(key, "X-Ratelimit") {
				continue
			}

			headers[key] = values
		}

		payload, err := json.Marshal(CachedResponse{
			StatusCode: status,
			Headers:    headers,
			Body:       writer.body.Bytes(),
			Timestamp:  time.Now(),
		})

		if err != nil {
			AddSpanError(span, err)
			return
		}

		if err := rc.store.Set(ctx, cacheKey, payload, cacheConfig.TTL); err != nil {
			AddSpanError(span, err)
			rc.logger.Warn("Cache store failed", zap.String("cache_key", cacheKey), zap.Error(err))
		}
	}
}

func (rc *ResponseCache) lookup(ctx context.Context, key string) (CachedResponse, bool) {
	var cached CachedResponse

	payload, err := rc.store.Get(ctx, key)

	if err != nil {
		rc.logger.Warn("Cache lookup failed", zap.String("cache_key", key), zap.Error(err))
		return cached, false
	}

	if payload == nil {
		return cached, false
	}

	if err := json.Unmarshal(payload, &cached); err != nil {
		rc.logger.Warn("Cache entry unreadable", zap.String("cache_key", key), zap.Error(err))
		return cached, false
	}

	return cached, true
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string, generation uint64) string {
	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))

	return fmt.Sprintf("%s%d:%s:%x", cacheKeyPrefix, generation, path, hash)
}

// Invalidate retires every cached response without touching the backend.
// It never blocks, so it is safe to call from a store subscriber.
func (rc *ResponseCache) Invalidate() {
	rc.generation.Add(1)

	select {
	case rc.sweep <- struct{}{}:
	default:
	}
}

// RunInvalidation deletes retired entries after each Invalidate until ctx is
// done. Invalidations that arrive during a sweep are coalesced into one.
func (rc *ResponseCache) RunInvalidation(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rc.sweep:
			rc.InvalidateAllCache(ctx)
		}
	}
}

// InvalidateAllCache drops every cached response.
func (rc *ResponseCache) InvalidateAllCache(ctx context.Context) {
	if err := rc.store.DeleteByPrefix(ctx, cacheKeyPrefix); err != nil {
		rc.logger.Warn("Cache invalidation failed", zap.Error(err))
		return
	}

	rc.logger.Debug("All cache invalidated")
}

func (rc *ResponseCache) SetConfig(path string, cacheConfig config.ResponseCacheConfig) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()
	rc.config[path] = cacheConfig
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
