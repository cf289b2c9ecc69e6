package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xpanvictor/portfolio/docs"
	"github.com/xpanvictor/portfolio/internal/config"
	"github.com/xpanvictor/portfolio/internal/handlers"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// Handlers groups every HTTP surface the server mounts under /api.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Chat      *handlers.ChatHandler
	Blog      *handlers.BlogHandler
	Analytics *handlers.AnalyticsHandler
	Leads     *handlers.LeadsHandler
	Content   *handlers.ContentHandler
}

func InitializeRoutes(r *gin.Engine, h Handlers) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	h.Auth.RegisterAuthRoutes(api)
	h.Chat.RegisterChatRoutes(api)
	h.Blog.RegisterBlogRoutes(api)
	h.Analytics.RegisterAnalyticsRoutes(api)
	h.Leads.RegisterLeadsRoutes(api)
	h.Content.RegisterContentRoutes(api)
}

// NewRouter builds the gin engine and wraps it in the CORS policy.
func NewRouter(cfg *config.Settings, logger *Logger.Logger, h Handlers) http.Handler {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(handlers.ErrorHandlerMiddleware(logger), handlers.RequestLoggerMiddleware(logger))
	// client identity comes from clientinfo, not gin's proxy handling
	_ = r.SetTrustedProxies(nil)

	InitializeRoutes(r, h)

	return corsPolicy(cfg.Server.AllowedOrigins).Handler(r)
}

func corsPolicy(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		ExposedHeaders: []string{"Retry-After"},
		// bearer tokens only, no cookies
		MaxAge: 600,
	})
}
