package prompts

type PromptName string

const (
	PromptRoleProfile    PromptName = "role_profile"
	PromptGrowthPlan     PromptName = "growth_plan"
	PromptMentalModels   PromptName = "mental_models"
	PromptLanguageDetect PromptName = "language_detect"
)
