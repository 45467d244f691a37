package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newQuoteRouter(limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(limiter))
	router.POST("/shipping/quote", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postQuoteFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/shipping/quote", strings.NewReader(`{"destination_cep":"01310100"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("10.0.0.2"))
		}

		assert.False(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("buckets are independent per client", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.False(t, limiter.Allow("10.0.0.3"))

		assert.True(t, limiter.Allow("10.0.0.4"))
		assert.True(t, limiter.Allow("10.0.0.4"))
	})

	t.Run("refills after the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.5"))
		assert.True(t, limiter.Allow("10.0.0.5"))
		assert.False(t, limiter.Allow("10.0.0.5"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.5"))
	})

	t.Run("remaining tracks consumed tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("10.0.0.6"))

		limiter.Allow("10.0.0.6")
		limiter.Allow("10.0.0.6")

		assert.Equal(t, 3, limiter.Remaining("10.0.0.6"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var wg sync.WaitGroup
		allowed := 0
		var mu sync.Mutex

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("10.0.0.7") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("quote bursts within limit pass", func(t *testing.T) {
		router := newQuoteRouter(NewRateLimiter(3, time.Minute))

		for i := 0; i < 3; i++ {
			w := postQuoteFrom(router, "203.0.113.10:40000")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("returns 429 envelope when limit exceeded", func(t *testing.T) {
		router := newQuoteRouter(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			w := postQuoteFrom(router, "203.0.113.11:40000")
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := postQuoteFrom(router, "203.0.113.11:40000")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("exposes rate limit headers on allowed requests", func(t *testing.T) {
		router := newQuoteRouter(NewRateLimiter(5, time.Minute))

		w := postQuoteFrom(router, "203.0.113.12:40000")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("one shopper exhausting the limit does not block another", func(t *testing.T) {
		router := newQuoteRouter(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			w := postQuoteFrom(router, "203.0.113.13:40000")
			assert.Equal(t, http.StatusOK, w.Code)
		}

		blocked := postQuoteFrom(router, "203.0.113.13:40000")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

		other := postQuoteFrom(router, "203.0.113.14:40000")
		assert.Equal(t, http.StatusOK, other.Code)
	})
}
