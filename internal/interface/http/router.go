package http

import (
	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/interface/http/handlers"
)

// newRouter assembles the gin engine and registers all routes.
func newRouter(cfg Config, deps Dependencies) *gin.Engine {
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))

	health := handlers.NewHealthHandler(deps.Health, deps.Logger)
	auth := handlers.NewAuthHandler(deps.Auth)
	progress := handlers.NewProgressHandler(deps.Ledger, deps.GetProgress)
	content := handlers.NewContentHandler(deps.GenerateContent, deps.CreateTopic)
	social := handlers.NewSocialHandler(deps.CreatePost, deps.ToggleLike, deps.GetFeed)

	engine.GET("/healthz", health.Liveness)
	engine.GET("/readyz", health.Readiness)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/auth/signup", auth.Signup)
		v1.POST("/auth/login", auth.Login)

		authed := v1.Group("")
		authed.Use(requireAuth(deps.Tokens))
		{
			authed.POST("/topics", content.CreateTopic)
			authed.POST("/content/:kind", content.Generate)

			authed.POST("/activities", progress.RecordActivity)
			authed.GET("/progress", progress.GetProgress)

			authed.POST("/posts", social.CreatePost)
			authed.POST("/posts/:id/like", social.ToggleLike)
			authed.GET("/feed", social.GetFeed)
		}
	}

	return engine
}
