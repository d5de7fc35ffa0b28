package growth

// GrowthPlan is a generated set of growth items, before persistence.
type GrowthPlan struct {
	GrowthItems []GrowthItemDraft `json:"growthItems"`
}

type GrowthItemDraft struct {
	Type        GrowthItemType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Link        *string        `json:"link"`
}

// MentalModelSet is one coaching answer.
type MentalModelSet struct {
	Models []MentalModel `json:"models"`
}
