package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todoref/internal/adapter/http/helper"
	"todoref/internal/core/model/response"
	"todoref/internal/core/telemetry"
	"todoref/pkg"
	"todoref/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
	now     func() time.Time
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	copied := make(map[string]config.RateLimitConfig, len(configs))

	for key, value := range configs {
		copied[key] = value
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  copied,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// RateLimitMiddleware counts requests per client for every route that has a
// "METHOD /route" entry. Routes without one are not limited.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			c.Next()
			return
		}

		methodPath := c.Request.Method + " " + path

		rl.mutex.RLock()
		limit, exists := rl.config[methodPath]
		rl.mutex.RUnlock()

		if !exists {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, pkg.GetClientIP(c))

		allowed, remaining, resetTime := rl.checkRateLimit(key, limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			helper.SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", []response.ValidationError{
				{
					Field:   "request",
					Message: fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window),
				},
			}, gin.H{"retry_after": int(resetTime.Sub(rl.now()).Seconds())})

			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRateLimit(key string, limit config.RateLimitConfig) (bool, int, time.Time) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		current := entry.(RateLimitEntry)

		if now.Before(current.ResetTime) {
			if current.Count >= limit.Requests {
				return false, 0, current.ResetTime
			}

			current.Count++
			rl.cache.Set(key, current, current.ResetTime.Sub(now))

			return true, limit.Requests - current.Count, current.ResetTime
		}
	}

	resetTime := now.Add(limit.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, limit.Window)

	return true, limit.Requests - 1, resetTime
}

func (rl *RateLimiter) SetConfig(methodPath string, limit config.RateLimitConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[methodPath] = limit
}

func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]interface{}{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
