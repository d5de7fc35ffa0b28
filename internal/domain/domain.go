package domain

import (
	"github.com/yungbote/force-backend/internal/domain/auth"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/domain/user"
)

type (
	User = user.User

	Principal = auth.Principal

	RoleProfile        = growth.RoleProfile
	SkillArea          = growth.SkillArea
	Skill              = growth.Skill
	SkillGap           = growth.SkillGap
	GrowthItem         = growth.GrowthItem
	GrowthItemType     = growth.GrowthItemType
	GrowthItemStatus   = growth.GrowthItemStatus
	SkillAssessment    = growth.SkillAssessment
	ReflectionEntry    = growth.ReflectionEntry
	ReflectionType     = growth.ReflectionType
	MentalModel        = growth.MentalModel
	MentalModelSession = growth.MentalModelSession
)

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&growth.GrowthItem{},
		&growth.SkillAssessment{},
		&growth.ReflectionEntry{},
		&growth.MentalModelSession{},
	}
}
