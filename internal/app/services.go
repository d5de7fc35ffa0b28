package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Avatar      services.AvatarService
	RoleProfile services.RoleProfileService
	GrowthPlan  services.GrowthPlanService
	MentalModel services.MentalModelService
	Skill       services.SkillService
	Reflection  services.ReflectionService
	Progress    services.ProgressService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	registry, err := prompts.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load prompt catalog: %w", err)
	}
	engine := generation.NewEngine(clients.OpenAI, registry, log, metrics)
	detector := generation.NewLanguageDetector(clients.OpenAI, registry, cfg.Generation.LanguageCacheSize, log, metrics)

	avatar, err := services.NewAvatarService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		Auth: services.NewAuthService(
			db, log, reposet.User, clients.Google, clients.Sessions,
			cfg.Auth.JWTSecret, cfg.SessionTTL(),
		),
		User:        services.NewUserService(log, reposet.User),
		Avatar:      avatar,
		RoleProfile: services.NewRoleProfileService(log, engine, detector, reposet.User),
		GrowthPlan:  services.NewGrowthPlanService(log, metrics, engine, reposet.SkillAssessment, reposet.GrowthItem),
		MentalModel: services.NewMentalModelService(log, engine, reposet.MentalModelSession, reposet.Reflection),
		Skill:       services.NewSkillService(log, reposet.SkillAssessment),
		Reflection:  services.NewReflectionService(log, reposet.Reflection),
		Progress:    services.NewProgressService(log, reposet.SkillAssessment, reposet.GrowthItem, reposet.Reflection),
	}, nil
}
