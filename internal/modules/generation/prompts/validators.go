package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

// requiredFields maps catalog "required" entries to validators.
var requiredFields = map[string]Validator{
	"role_description": RequireNonEmpty("role_description", func(in Input) string { return in.RoleDescription }),
	"prompt":           RequireNonEmpty("prompt", func(in Input) string { return in.Prompt }),
	"text":             RequireNonEmpty("text", func(in Input) string { return in.Text }),
	"skill_gaps": func(in Input) error {
		if len(in.SkillGaps) == 0 {
			return fmt.Errorf("skill_gaps required")
		}
		return nil
	},
}
