package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func quotePayload(itemCount int) string {
	items := make([]string, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, fmt.Sprintf(`{"product_id":"d2719f0a-8a1b-4a2f-9c63-%012d","quantity":2}`, i))
	}
	return `{"destination_cep":"01310100","cart_value":"149.90","items":[` + strings.Join(items, ",") + `]}`
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/shipping/quote", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		router.GET("/shipping/rules", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		return router
	}

	t.Run("typical quote payload passes", func(t *testing.T) {
		router := newRouter(64 * 1024)

		body := quotePayload(3)
		req := httptest.NewRequest("POST", "/shipping/quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized payload is rejected with 413", func(t *testing.T) {
		router := newRouter(256)

		body := quotePayload(50)
		req := httptest.NewRequest("POST", "/shipping/quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("bodyless GET is unaffected", func(t *testing.T) {
		router := newRouter(10)

		req := httptest.NewRequest("GET", "/shipping/rules", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cap holds without a Content-Length header", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(64))
		router.POST("/shipping/quote", func(c *gin.Context) {
			buf := make([]byte, 1024)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		// Streaming request; only MaxBytesReader can enforce the cap
		req := httptest.NewRequest("POST", "/shipping/quote", strings.NewReader(quotePayload(20)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
