package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"paygate/internal/ratelimit"
)

func NewRouter(h *Handler, limiter ratelimit.Limiter, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(cors.Default())

	webhooks := r.Group("/webhooks")
	webhooks.Use(ratelimit.Middleware(limiter, log))
	webhooks.POST("/skipcash", h.SkipCashWebhook)
	webhooks.POST("/geidea", h.GeideaWebhook)

	r.GET("/payments/geidea/return", h.GeideaReturn)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
