package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cors "github.com/rs/cors/wrapper/gin"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, authTokens map[string]string, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger(logger))
	engine.Use(Identity(authTokens))
	engine.Use(cors.AllowAll())

	engine.GET("/health", h.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.POST("/generate", h.Generate)
	engine.GET("/video/:id/status", h.Status)
	engine.GET("/videos", h.ListVideos)
	engine.GET("/videos/user/:user", h.ListUserVideos)
	engine.GET("/videos/:file", h.ServeVideo)

	return engine
}
