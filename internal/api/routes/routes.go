package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-related-articles/internal/api/handlers"
	"github.com/prefeitura-rio/app-related-articles/internal/config"
	middlewares "github.com/prefeitura-rio/app-related-articles/internal/middleware"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies agrupa os componentes construídos no main e compartilhados pelas rotas
type Dependencies struct {
	Recommender handlers.Recommender
	Mutations   handlers.MutationHandler
	Store       handlers.Pinger
	Cache       cache.Cache
}

func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.AccessLog())
	r.Use(middlewares.RequestTiming())
	r.Use(corsMiddleware())

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Cache)
	relatedHandler := handlers.NewRelatedHandler(deps.Recommender)
	eventHandler := handlers.NewEventHandler(deps.Mutations)

	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)

	api := r.Group("/api/v1")
	{
		api.GET("/articles/:id/related", relatedHandler.GetRelated)
	}

	internal := r.Group("/api/v1/internal")
	internal.Use(middlewares.InternalToken(cfg.InternalAPIToken))
	{
		internal.POST("/articles/:id/events", eventHandler.PostEvent)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
