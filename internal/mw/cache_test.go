package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCache(t *testing.T) {
	hits := 0
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/data", func(c *gin.Context) {
		hits++
		c.Header("X-Format", c.GetHeader("Accept"))
		c.String(http.StatusOK, "hit %d", hits)
	})
	r.POST("/data", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	get := func(accept string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set("Accept", accept)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "hit 1", get("application/json").Body.String())

	cached := get("application/json")
	assert.Equal(t, "hit 1", cached.Body.String())
	assert.Equal(t, "application/json", cached.Header().Get("X-Format"))

	// Different Accept header is a different entry.
	assert.Equal(t, "hit 2", get("application/xml").Body.String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/data", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, "hit 3", get("application/json").Body.String())
}

func TestCache_KeepsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/data", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	get := func(id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set(RequestIDHeader, id)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "first", get("first").Header().Get(RequestIDHeader))

	cached := get("second")
	assert.Equal(t, "ok", cached.Body.String())
	assert.Equal(t, "second", cached.Header().Get(RequestIDHeader))
}
