package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"todoref/internal/core/telemetry"
	"todoref/pkg/config"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newTestRateLimiter(requests int, window time.Duration) *RateLimiter {
	return NewRateLimiter(map[string]config.RateLimitConfig{
		"GET /test": {Requests: requests, Window: window},
	}, zap.NewNop(), telemetry.NewAppMetrics(prometheus.NewRegistry()))
}

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/free", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(config.GetDefaultConfig().RateLimitConfigs, zap.NewNop(), nil)

	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("POST /todos"))
	Expect(rl.GetStats()).To(HaveKeyWithValue("active_entries", 0))
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	router := rateLimitedRouter(newTestRateLimiter(5, time.Minute))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(4 - i)))
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	router := rateLimitedRouter(newTestRateLimiter(3, time.Minute))

	codes := []int{}

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests {
			Expect(w.Body.String()).To(ContainSubstring("RATE_LIMITED"))
			Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
		}
	}

	Expect(codes).To(Equal([]int{200, 200, 200, 429, 429}))
}

func TestRateLimitMiddleware_UnconfiguredRoute(t *testing.T) {
	RegisterTestingT(t)
	router := rateLimitedRouter(newTestRateLimiter(1, time.Minute))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/free", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
	}
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	RegisterTestingT(t)
	router := rateLimitedRouter(newTestRateLimiter(1, time.Minute))

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Forwarded-For", ip)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
	}
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	router := rateLimitedRouter(rl)

	send := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		return w.Code
	}

	Expect(send()).To(Equal(200))
	Expect(send()).To(Equal(429))

	now = now.Add(time.Minute + time.Second)

	Expect(send()).To(Equal(200))
}

func TestRateLimitMiddleware_Concurrent(t *testing.T) {
	RegisterTestingT(t)
	router := rateLimitedRouter(newTestRateLimiter(10, time.Minute))

	var mu sync.Mutex
	allowed := 0

	var wg sync.WaitGroup

	for i := 0; i < 25; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			router.ServeHTTP(w, req)

			if w.Code == 200 {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	Expect(allowed).To(Equal(10))
}
