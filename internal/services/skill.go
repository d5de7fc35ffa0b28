package services

import (
	"context"
	"strings"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type SkillAssessmentInput struct {
	SkillID              string
	Area                 string
	Name                 string
	TargetLevel          int
	CurrentLevel         int
	Examples             *string
	RecommendedResources []string
}

type SkillService interface {
	// Save upserts on (user, skill id).
	Save(ctx context.Context, p types.Principal, in SkillAssessmentInput) (*types.SkillAssessment, error)
	List(ctx context.Context, p types.Principal) ([]*types.SkillAssessment, error)
}

type skillService struct {
	log       *logger.Logger
	skillRepo repos.SkillAssessmentRepo
}

func NewSkillService(log *logger.Logger, skillRepo repos.SkillAssessmentRepo) SkillService {
	return &skillService{
		log:       log.With("service", "SkillService"),
		skillRepo: skillRepo,
	}
}

func (s *skillService) Save(ctx context.Context, p types.Principal, in SkillAssessmentInput) (*types.SkillAssessment, error) {
	const op = "skills.save"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	skillID, err := requireText(op, "skillId", in.SkillID, 200)
	if err != nil {
		return nil, err
	}
	area, err := requireText(op, "area", in.Area, 200)
	if err != nil {
		return nil, err
	}
	name, err := requireText(op, "name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	levels := []struct {
		field string
		v     int
	}{{"targetLevel", in.TargetLevel}, {"currentLevel", in.CurrentLevel}}
	for _, l := range levels {
		if l.v < growth.MinLevel || l.v > growth.MaxLevel {
			return nil, apperr.Newf(apperr.CodeInvalidArgument, op, "%s must be between %d and %d", l.field, growth.MinLevel, growth.MaxLevel)
		}
	}

	var examples *string
	if in.Examples != nil {
		if e := strings.TrimSpace(*in.Examples); e != "" {
			examples = &e
		}
	}
	resources := make([]string, 0, len(in.RecommendedResources))
	for _, r := range in.RecommendedResources {
		if r = strings.TrimSpace(r); r != "" {
			resources = append(resources, r)
		}
	}

	saved, err := s.skillRepo.Upsert(dbctx.New(ctx), &types.SkillAssessment{
		UserID:               p.UserID,
		SkillID:              skillID,
		Area:                 area,
		Name:                 name,
		TargetLevel:          in.TargetLevel,
		CurrentLevel:         in.CurrentLevel,
		Examples:             examples,
		RecommendedResources: resources,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("skill assessment saved", "user_id", p.UserID, "skill_id", skillID, "current_level", in.CurrentLevel)
	return saved, nil
}

func (s *skillService) List(ctx context.Context, p types.Principal) ([]*types.SkillAssessment, error) {
	if err := requirePrincipal("skills.list", p); err != nil {
		return nil, err
	}
	return s.skillRepo.ListByUser(dbctx.New(ctx), p.UserID)
}
