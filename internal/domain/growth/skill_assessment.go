package growth

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SkillAssessment is unique per (UserID, SkillID); saving again updates in place.
type SkillAssessment struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_skill_assessment_user_skill,priority:1" json:"userId"`
	SkillID              string                      `gorm:"column:skill_id;not null;uniqueIndex:idx_skill_assessment_user_skill,priority:2" json:"skillId"`
	Area                 string                      `gorm:"column:area;not null" json:"area"`
	Name                 string                      `gorm:"column:name;not null" json:"name"`
	TargetLevel          int                         `gorm:"column:target_level;not null" json:"targetLevel"`
	CurrentLevel         int                         `gorm:"column:current_level;not null" json:"currentLevel"`
	Examples             *string                     `gorm:"column:examples" json:"examples"`
	RecommendedResources datatypes.JSONSlice[string] `gorm:"column:recommended_resources" json:"recommendedResources"`
	CreatedAt            time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt            time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (SkillAssessment) TableName() string { return "skill_assessments" }

// Gap returns the positive distance to target, or 0.
func (s SkillAssessment) Gap() int {
	if s.CurrentLevel >= s.TargetLevel {
		return 0
	}
	return s.TargetLevel - s.CurrentLevel
}

// GapsFrom lists every assessed skill still below its target, biggest gap
// first. Levels are clamped to the 1-5 scale before comparing.
func GapsFrom(assessments []*SkillAssessment) []SkillGap {
	gaps := make([]SkillGap, 0, len(assessments))
	for _, a := range assessments {
		if a == nil {
			continue
		}
		cur, target := ClampLevel(a.CurrentLevel), ClampLevel(a.TargetLevel)
		if cur >= target {
			continue
		}
		gaps = append(gaps, SkillGap{
			SkillID:      a.SkillID,
			Skill:        a.Name,
			Area:         a.Area,
			Gap:          target - cur,
			CurrentLevel: cur,
			TargetLevel:  target,
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Gap != gaps[j].Gap {
			return gaps[i].Gap > gaps[j].Gap
		}
		if gaps[i].Area != gaps[j].Area {
			return gaps[i].Area < gaps[j].Area
		}
		return gaps[i].Skill < gaps[j].Skill
	})
	return gaps
}
