package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/force-backend/internal/http/handlers"
	httpMW "github.com/yungbote/force-backend/internal/http/middleware"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	RateLimit   httpMW.RateLimitConfig

	AuthMiddleware    *httpMW.AuthMiddleware
	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	GenerationHandler *httpH.GenerationHandler
	GrowthHandler     *httpH.GrowthHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.TraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Public
	if cfg.UserHandler != nil {
		api.POST("/users", cfg.UserHandler.Create)
	}
	if cfg.AuthHandler != nil {
		api.POST("/auth/google", cfg.AuthHandler.GoogleLogin)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	} else {
		protected.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
	}

	if cfg.AuthHandler != nil {
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		protected.GET("/auth/me", cfg.AuthHandler.Me)
	}
	if cfg.UserHandler != nil {
		protected.GET("/users/me/avatar.png", cfg.UserHandler.Avatar)
		protected.GET("/users/:id", cfg.UserHandler.Get)
	}

	if cfg.GenerationHandler != nil {
		generate := protected.Group("/")
		generate.Use(httpMW.RateLimit(cfg.RateLimit, cfg.Metrics))
		generate.POST("/role-profile", cfg.GenerationHandler.RoleProfile)
		generate.POST("/growth-plan", cfg.GenerationHandler.GrowthPlan)
		generate.POST("/mental-models", cfg.GenerationHandler.MentalModels)
	}

	if cfg.GrowthHandler != nil {
		h := cfg.GrowthHandler
		protected.GET("/growth-items", h.ListItems)
		protected.PUT("/growth-items/status", h.UpdateItemStatus)
		protected.PUT("/growth-items/:id/status", h.UpdateItemStatus)

		protected.GET("/mental-models", h.ListMentalModels)
		protected.GET("/mental-models/:id", h.GetMentalModels)
		protected.POST("/mental-models/:id/journal", h.SaveMentalModelsToJournal)

		protected.POST("/skills", h.SaveSkill)
		protected.GET("/skills", h.ListSkills)

		protected.POST("/reflections", h.CreateReflection)
		protected.GET("/reflections", h.ListReflections)

		protected.GET("/progress", h.Progress)
	}

	return r
}
