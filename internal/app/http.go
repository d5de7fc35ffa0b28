package app

import (
	"gorm.io/gorm"

	forcehttp "github.com/yungbote/force-backend/internal/http"
	httpH "github.com/yungbote/force-backend/internal/http/handlers"
	httpMW "github.com/yungbote/force-backend/internal/http/middleware"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Generation *httpH.GenerationHandler
	Growth     *httpH.GrowthHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Auth:       httpH.NewAuthHandler(log, services.Auth, services.User, cfg.Auth.CookieSecure),
		User:       httpH.NewUserHandler(services.User, services.Avatar),
		Generation: httpH.NewGenerationHandler(services.RoleProfile, services.GrowthPlan, services.MentalModel),
		Growth: httpH.NewGrowthHandler(httpH.GrowthHandlerDeps{
			GrowthPlans:  services.GrowthPlan,
			MentalModels: services.MentalModel,
			Skills:       services.Skill,
			Reflections:  services.Reflection,
			Progress:     services.Progress,
		}),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *forcehttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return forcehttp.NewServer(forcehttp.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		ServiceName: serviceName,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		RateLimit: httpMW.RateLimitConfig{
			RPS:   cfg.HTTP.RateLimitRPS,
			Burst: cfg.HTTP.RateLimitBurst,
		},
		AuthMiddleware:    middleware.Auth,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		GenerationHandler: handlers.Generation,
		GrowthHandler:     handlers.Growth,
		HealthHandler:     handlers.Health,
	})
}
