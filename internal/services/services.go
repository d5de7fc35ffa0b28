package services

import (
	"strings"
	"unicode/utf8"

	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/domain/auth"
)

const (
	maxRoleDescriptionLen = 4000
	maxCoachPromptLen     = 4000
	maxReflectionLen      = 10000
)

func requirePrincipal(op string, p auth.Principal) error {
	if p.IsZero() {
		return apperr.New(apperr.CodeUnauthenticated, op, "")
	}
	return nil
}

// requireText trims s and rejects empty or oversized input.
func requireText(op, field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Newf(apperr.CodeInvalidArgument, op, "%s is required", field)
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", apperr.Newf(apperr.CodeInvalidArgument, op, "%s must be at most %d characters", field, max)
	}
	return s, nil
}
