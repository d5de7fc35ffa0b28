package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type LanguageDetector interface {
	Detect(ctx context.Context, text string) generation.Detection
}

type RoleProfileService interface {
	// Generate replaces the caller's target profile. Concurrent calls for the
	// same user are not coordinated; the last write wins.
	Generate(ctx context.Context, p types.Principal, roleDescription string) (*types.RoleProfile, error)
}

type roleProfileService struct {
	log      *logger.Logger
	engine   *generation.Engine
	detector LanguageDetector
	userRepo repos.UserRepo
}

func NewRoleProfileService(log *logger.Logger, engine *generation.Engine, detector LanguageDetector, userRepo repos.UserRepo) RoleProfileService {
	return &roleProfileService{
		log:      log.With("service", "RoleProfileService"),
		engine:   engine,
		detector: detector,
		userRepo: userRepo,
	}
}

func (s *roleProfileService) Generate(ctx context.Context, p types.Principal, roleDescription string) (*types.RoleProfile, error) {
	const op = "role_profile.generate"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	desc, err := requireText(op, "roleDescription", roleDescription, maxRoleDescriptionLen)
	if err != nil {
		return nil, err
	}

	in := prompts.Input{RoleDescription: desc}
	if s.detector != nil {
		det := s.detector.Detect(ctx, desc)
		in.Language = det.Language
		s.log.Info("role description language", "user_id", p.UserID, "language", det.Language, "language_fallback", det.Fallback)
	}

	return generation.Run(ctx, s.engine, generation.Job[growth.RoleProfile, *types.RoleProfile]{
		Name:   "role_profile",
		Prompt: prompts.PromptRoleProfile,
		Input:  in,
		Schema: schema.RoleProfile(),
		Persist: func(ctx context.Context, profile growth.RoleProfile) (*types.RoleProfile, error) {
			normalizeSkillIDs(&profile)
			raw, err := json.Marshal(profile)
			if err != nil {
				return nil, fmt.Errorf("encode role profile: %w", err)
			}
			if err := s.userRepo.SetTargetProfile(dbctx.New(ctx), p.UserID, desc, datatypes.JSON(raw)); err != nil {
				return nil, err
			}
			s.log.Info("role profile saved", "user_id", p.UserID, "areas", len(profile.SkillAreas), "skills", profile.SkillCount())
			return &profile, nil
		},
	})
}

// normalizeSkillIDs forces ids into lowercase ASCII with underscores and
// makes them unique across the profile, since assessments key on them.
func normalizeSkillIDs(profile *growth.RoleProfile) {
	used := map[string]bool{}
	for ai := range profile.SkillAreas {
		skills := profile.SkillAreas[ai].Skills
		for si := range skills {
			id := slugify(skills[si].ID)
			if id == "" {
				id = slugify(skills[si].Name)
			}
			if id == "" {
				id = "skill"
			}
			base := id
			for n := 2; used[id]; n++ {
				id = base + "_" + strconv.Itoa(n)
			}
			used[id] = true
			skills[si].ID = id
		}
	}
}

func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
