package api

import (
	"github.com/Ankit1478/sfx-backend/internal/api/handler"
	"github.com/Ankit1478/sfx-backend/internal/api/middleware"
	"github.com/Ankit1478/sfx-backend/internal/config"
	"github.com/Ankit1478/sfx-backend/internal/logger"
	"github.com/gin-gonic/gin"
)

// Dependencies bundles the services the router exposes over HTTP.
type Dependencies struct {
	SoundEffects *handler.SoundEffectHandler
	Transcribe   *handler.TranscribeHandler
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Dependencies, cfg *config.Config, log *logger.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/extract-sfx", deps.SoundEffects.Extract)
		v1.POST("/sound-effects", deps.SoundEffects.Process)
		v1.GET("/sound-effects", deps.SoundEffects.List)
		v1.POST("/transcribe", deps.Transcribe.Transcribe)
	}

	return r
}
