package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type GrowthPlanService interface {
	// Generate plans items for the caller's current skill gaps. With no gaps
	// it returns an empty list without calling the model.
	Generate(ctx context.Context, p types.Principal) ([]*types.GrowthItem, error)
	List(ctx context.Context, p types.Principal) ([]*types.GrowthItem, error)
	UpdateStatus(ctx context.Context, p types.Principal, itemID uuid.UUID, status string) (*types.GrowthItem, error)
}

type growthPlanService struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	engine     *generation.Engine
	skillRepo  repos.SkillAssessmentRepo
	growthRepo repos.GrowthItemRepo
}

func NewGrowthPlanService(
	log *logger.Logger,
	metrics *observability.Metrics,
	engine *generation.Engine,
	skillRepo repos.SkillAssessmentRepo,
	growthRepo repos.GrowthItemRepo,
) GrowthPlanService {
	return &growthPlanService{
		log:        log.With("service", "GrowthPlanService"),
		metrics:    metrics,
		engine:     engine,
		skillRepo:  skillRepo,
		growthRepo: growthRepo,
	}
}

func (s *growthPlanService) Generate(ctx context.Context, p types.Principal) ([]*types.GrowthItem, error) {
	const op = "growth_plan.generate"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	assessments, err := s.skillRepo.ListByUser(dbctx.New(ctx), p.UserID)
	if err != nil {
		return nil, err
	}
	gaps := growth.GapsFrom(assessments)
	if len(gaps) == 0 {
		s.log.Info("no skill gaps, skipping growth plan", "user_id", p.UserID, "assessments", len(assessments))
		return []*types.GrowthItem{}, nil
	}

	return generation.Run(ctx, s.engine, generation.Job[growth.GrowthPlan, []*types.GrowthItem]{
		Name:   "growth_plan",
		Prompt: prompts.PromptGrowthPlan,
		Input:  prompts.Input{SkillGaps: gaps},
		Schema: schema.GrowthPlan(),
		Persist: func(ctx context.Context, plan growth.GrowthPlan) ([]*types.GrowthItem, error) {
			if len(plan.GrowthItems) == 0 {
				s.metrics.IncLowConfidence("growth_plan")
				s.log.Warn("model returned no growth items for non-empty gaps", "user_id", p.UserID, "gaps", len(gaps), "low_confidence", true)
				return []*types.GrowthItem{}, nil
			}
			items := make([]*types.GrowthItem, 0, len(plan.GrowthItems))
			for _, d := range plan.GrowthItems {
				items = append(items, &types.GrowthItem{
					UserID:      p.UserID,
					Type:        d.Type,
					Title:       strings.TrimSpace(d.Title),
					Description: strings.TrimSpace(d.Description),
					Link:        normalizeLink(d.Link),
				})
			}
			created, err := s.growthRepo.CreateBatch(dbctx.New(ctx), items)
			if err != nil {
				return nil, err
			}
			s.log.Info("growth plan saved", "user_id", p.UserID, "items", len(created), "gaps", len(gaps))
			return created, nil
		},
	})
}

func (s *growthPlanService) List(ctx context.Context, p types.Principal) ([]*types.GrowthItem, error) {
	if err := requirePrincipal("growth_plan.list", p); err != nil {
		return nil, err
	}
	return s.growthRepo.ListByUser(dbctx.New(ctx), p.UserID)
}

func (s *growthPlanService) UpdateStatus(ctx context.Context, p types.Principal, itemID uuid.UUID, status string) (*types.GrowthItem, error) {
	const op = "growth_plan.update_status"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, apperr.New(apperr.CodeInvalidArgument, op, "itemId is required")
	}
	st := growth.GrowthItemStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, apperr.Newf(apperr.CodeInvalidArgument, op, "status must be one of pending, in_progress, done")
	}
	return s.growthRepo.UpdateStatus(dbctx.New(ctx), p.UserID, itemID, st)
}

// normalizeLink keeps only absolute http(s) links.
func normalizeLink(link *string) *string {
	if link == nil {
		return nil
	}
	l := strings.TrimSpace(*link)
	lower := strings.ToLower(l)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil
	}
	return &l
}
