package middleware

import (
	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// SetupGinMiddleware installs the middleware chain in request order. The
// returned ResponseCache is nil when caching is disabled.
func SetupGinMiddleware(router *gin.Engine, appConfig *config.AppConfig, logger *config.AppLogger, metrics *telemetry.AppMetrics, probe port.Telemetry, cache port.CacheRepository) *ResponseCache {
	router.Use(gin.Recovery())
	router.Use(CurrentMiddleware())

	httpsEnforcer := NewHTTPSEnforcer(appConfig.EnforceHTTPS, logger.Zap())
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(appConfig.ServiceName))

	router.Use(LoggingMiddleware(logger))

	if metrics != nil || probe != nil {
		router.Use(MetricsMiddleware(metrics, probe))
	}

	if appConfig.RateLimitEnabled {
		rateLimiter := NewRateLimiter(appConfig.RateLimitConfigs, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	var responseCache *ResponseCache

	if appConfig.CacheEnabled && cache != nil {
		responseCache = NewResponseCache(cache, appConfig.CacheBackend, appConfig.CacheConfigs, logger.Zap(), metrics)
		router.Use(responseCache.CacheMiddleware())
	}

	return responseCache
}
