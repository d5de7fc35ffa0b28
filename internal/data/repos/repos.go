package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/repos/growth"
	"github.com/yungbote/force-backend/internal/data/repos/user"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type GrowthItemRepo = growth.GrowthItemRepo
type SkillAssessmentRepo = growth.SkillAssessmentRepo
type ReflectionRepo = growth.ReflectionRepo
type MentalModelSessionRepo = growth.MentalModelSessionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewGrowthItemRepo(db *gorm.DB, baseLog *logger.Logger) GrowthItemRepo {
	return growth.NewGrowthItemRepo(db, baseLog)
}
func NewSkillAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) SkillAssessmentRepo {
	return growth.NewSkillAssessmentRepo(db, baseLog)
}
func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionRepo {
	return growth.NewReflectionRepo(db, baseLog)
}
func NewMentalModelSessionRepo(db *gorm.DB, baseLog *logger.Logger) MentalModelSessionRepo {
	return growth.NewMentalModelSessionRepo(db, baseLog)
}
