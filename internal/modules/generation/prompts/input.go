package prompts

import (
	"encoding/json"

	"github.com/yungbote/force-backend/internal/domain/growth"
)

// Input carries every field a template may reference.
type Input struct {
	RoleDescription string
	SkillGaps       []growth.SkillGap
	Prompt          string
	Text            string
	// Language is the answer language; empty means no directive.
	Language string
}

// SkillGapsJSON renders the gaps the way the growth plan prompt embeds them.
func (in Input) SkillGapsJSON() string {
	type gap struct {
		Skill        string `json:"skill"`
		Area         string `json:"area"`
		Gap          int    `json:"gap"`
		CurrentLevel int    `json:"currentLevel"`
		TargetLevel  int    `json:"targetLevel"`
	}
	out := make([]gap, 0, len(in.SkillGaps))
	for _, g := range in.SkillGaps {
		out = append(out, gap{Skill: g.Skill, Area: g.Area, Gap: g.Gap, CurrentLevel: g.CurrentLevel, TargetLevel: g.TargetLevel})
	}
	b, _ := json.Marshal(out)
	return string(b)
}
