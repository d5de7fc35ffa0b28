package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/repos"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type Repos struct {
	User               repos.UserRepo
	GrowthItem         repos.GrowthItemRepo
	SkillAssessment    repos.SkillAssessmentRepo
	Reflection         repos.ReflectionRepo
	MentalModelSession repos.MentalModelSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		GrowthItem:         repos.NewGrowthItemRepo(db, log),
		SkillAssessment:    repos.NewSkillAssessmentRepo(db, log),
		Reflection:         repos.NewReflectionRepo(db, log),
		MentalModelSession: repos.NewMentalModelSessionRepo(db, log),
	}
}
