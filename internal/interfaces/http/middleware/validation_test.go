package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type payload struct {
		OriginCEP string `json:"origin_cep" binding:"required"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req payload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("binding errors use JSON field names", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "origin_cep")
		assert.NotContains(t, w.Body.String(), "OriginCEP'")
	})

	t.Run("valid payload passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"origin_cep": "01310100"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCEPValidationTag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type payload struct {
		CEP string `json:"cep" binding:"required,cep"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req payload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare digits", `{"cep": "01310100"}`, http.StatusOK},
		{"dashed", `{"cep": "01310-100"}`, http.StatusOK},
		{"too short", `{"cep": "0131010"}`, http.StatusBadRequest},
		{"letters", `{"cep": "abcdefgh"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
