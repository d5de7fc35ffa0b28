package schema

import "github.com/yungbote/force-backend/internal/domain/growth"

// RoleProfile requires at least one area with at least one fully populated
// skill. The 4-6 / 3-5 cardinality is requested from the model, not enforced.
func RoleProfile() Schema {
	skill := Object(
		Required("id", NonEmptyString()),
		Required("name", NonEmptyString()),
		Required("description", NonEmptyString()),
		Required("targetLevel", Integer(growth.MinLevel, growth.MaxLevel)),
	)
	area := Object(
		Required("area", NonEmptyString()),
		Required("skills", Array(skill, NonEmpty())),
	)
	return Object(
		Required("archetype", NonEmptyString()),
		Required("skillAreas", Array(area, NonEmpty())),
	)
}

const (
	GrowthPlanMinItems = 3
	GrowthPlanMaxItems = 8
)

// GrowthPlan enforces 3-8 items. An empty list passes so the caller can
// treat it as a low-confidence answer.
func GrowthPlan() Schema {
	item := Object(
		Required("type", Enum(growth.GrowthItemTypes...)),
		Required("title", NonEmptyString()),
		Required("description", NonEmptyString()),
		Optional("link", Nullable(String())),
	)
	return Object(
		Required("growthItems", Array(item,
			MinItems(GrowthPlanMinItems),
			MaxItems(GrowthPlanMaxItems),
			AllowEmpty(),
		)),
	)
}

// MentalModels requires exactly five fully populated models.
func MentalModels() Schema {
	model := Object(
		Required("name", NonEmptyString()),
		Required("explanation", NonEmptyString()),
		Required("newPerspective", NonEmptyString()),
		Required("keyInsight", NonEmptyString()),
		Required("practicalAction", NonEmptyString()),
	)
	return Object(
		Required("models", Array(model, ExactItems(growth.MentalModelCount))),
	)
}
