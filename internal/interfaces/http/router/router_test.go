package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// newShippingRouter mirrors the server wiring: shipping and system domain
// groups mounted under the versioned prefix.
func newShippingRouter(opts ...RouterOption) *gin.Engine {
	engine := gin.New()
	r := NewRouter(engine, opts...)

	shipping := NewDomainGroup("shipping", "/shipping")
	shipping.POST("/quote", okHandler)
	shipping.GET("/settings", okHandler)
	shipping.PUT("/settings", okHandler)

	rules := shipping.Group("rules", "/rules")
	rules.POST("", okHandler)
	rules.GET("", okHandler)
	rules.GET("/:id", okHandler)
	rules.PUT("/:id", okHandler)
	rules.DELETE("/:id", okHandler)

	boxes := shipping.Group("boxes", "/boxes")
	boxes.GET("", okHandler)

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", okHandler)

	r.Register(shipping).Register(system).Setup()
	return engine
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mounts domain routes under /api/v1", func(t *testing.T) {
		engine := newShippingRouter()

		for _, tc := range []struct {
			method string
			path   string
		}{
			{"POST", "/api/v1/shipping/quote"},
			{"GET", "/api/v1/shipping/settings"},
			{"PUT", "/api/v1/shipping/settings"},
			{"GET", "/api/v1/system/ping"},
		} {
			w := serve(engine, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := newShippingRouter()

		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/shipping/rules").Code)
		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/shipping/rules/42").Code)
		assert.Equal(t, http.StatusOK, serve(engine, "DELETE", "/api/v1/shipping/rules/42").Code)
		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/shipping/boxes").Code)
	})

	t.Run("routes are not reachable outside the versioned prefix", func(t *testing.T) {
		engine := newShippingRouter()

		assert.Equal(t, http.StatusNotFound, serve(engine, "POST", "/shipping/quote").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, "POST", "/api/shipping/quote").Code)
	})

	t.Run("WithAPIVersion changes the prefix", func(t *testing.T) {
		engine := newShippingRouter(WithAPIVersion("v2"))

		assert.Equal(t, http.StatusOK, serve(engine, "POST", "/api/v2/shipping/quote").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, "POST", "/api/v1/shipping/quote").Code)
	})
}

func TestDomainGroupMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	requireKey := func(c *gin.Context) {
		if c.GetHeader("X-API-Key") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}

	engine := gin.New()
	r := NewRouter(engine)

	shipping := NewDomainGroup("shipping", "/shipping")
	shipping.Use(requireKey)
	shipping.POST("/quote", okHandler)
	rules := shipping.Group("rules", "/rules")
	rules.GET("", okHandler)

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", okHandler)

	r.Register(shipping).Register(system).Setup()

	t.Run("group middleware guards its routes", func(t *testing.T) {
		w := serve(engine, "POST", "/api/v1/shipping/quote")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest("POST", "/api/v1/shipping/quote", nil)
		req.Header.Set("X-API-Key", "test-key")
		ok := httptest.NewRecorder()
		engine.ServeHTTP(ok, req)
		assert.Equal(t, http.StatusOK, ok.Code)
	})

	t.Run("middleware applies to subgroups", func(t *testing.T) {
		w := serve(engine, "GET", "/api/v1/shipping/rules")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other groups stay open", func(t *testing.T) {
		w := serve(engine, "GET", "/api/v1/system/ping")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
