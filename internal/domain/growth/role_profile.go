package growth

// RoleProfile is the generated skill map for a role.
type RoleProfile struct {
	Archetype  string      `json:"archetype"`
	SkillAreas []SkillArea `json:"skillAreas"`
}

type SkillArea struct {
	Area   string  `json:"area"`
	Skills []Skill `json:"skills"`
}

type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetLevel int    `json:"targetLevel"`
}

// SkillCount totals skills across all areas.
func (p RoleProfile) SkillCount() int {
	n := 0
	for _, a := range p.SkillAreas {
		n += len(a.Skills)
	}
	return n
}

// SkillGap is the distance between a self-assessed level and the target.
type SkillGap struct {
	SkillID      string `json:"skillId"`
	Skill        string `json:"skill"`
	Area         string `json:"area"`
	Gap          int    `json:"gap"`
	CurrentLevel int    `json:"currentLevel"`
	TargetLevel  int    `json:"targetLevel"`
}

const (
	MinLevel = 1
	MaxLevel = 5
)

// ClampLevel pins a level into [MinLevel, MaxLevel].
func ClampLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}
