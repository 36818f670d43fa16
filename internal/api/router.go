package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gateway-data-backend/config"
	"gateway-data-backend/internal/auth"
	"gateway-data-backend/internal/mw"
	"gateway-data-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, verifier auth.Verifier, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(mw.RequestLogger(logger), mw.Recovery(logger))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})

	handler := NewHandler(s, logger)

	api := r.Group("/api")
	api.Use(
		mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
		mw.BasicAuth(verifier),
		mw.BodyLimit(cfg.MaxBodyBytes),
	)
	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		api.Use(mw.Cache(cache.New(ttl, 2*ttl), ttl))
	}
	{
		api.GET("/data", handler.ListGateways)
		api.POST("/data", handler.CreateGateway)
		api.GET("/data/:gatewayID", handler.GetGateway)
		api.PUT("/data/:gatewayID", handler.UpdateGateway)
		api.DELETE("/data/:gatewayID", handler.DeleteGateway)
	}

	return r
}
