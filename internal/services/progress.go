package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type AreaProgress struct {
	Area     string                   `json:"area"`
	Progress int                      `json:"progress"`
	Skills   []*types.SkillAssessment `json:"skills"`
}

type ProgressSummary struct {
	OverallProgress int               `json:"overallProgress"`
	CompletedItems  int               `json:"completedItems"`
	InProgressItems int               `json:"inProgressItems"`
	TotalItems      int               `json:"totalItems"`
	ReflectionCount int               `json:"reflectionCount"`
	SkillGaps       []growth.SkillGap `json:"skillGaps"`
	SkillsByArea    []AreaProgress    `json:"skillsByArea"`
}

type ProgressService interface {
	Summary(ctx context.Context, p types.Principal) (*ProgressSummary, error)
}

type progressService struct {
	log            *logger.Logger
	skillRepo      repos.SkillAssessmentRepo
	growthRepo     repos.GrowthItemRepo
	reflectionRepo repos.ReflectionRepo
}

func NewProgressService(log *logger.Logger, skillRepo repos.SkillAssessmentRepo, growthRepo repos.GrowthItemRepo, reflectionRepo repos.ReflectionRepo) ProgressService {
	return &progressService{
		log:            log.With("service", "ProgressService"),
		skillRepo:      skillRepo,
		growthRepo:     growthRepo,
		reflectionRepo: reflectionRepo,
	}
}

func (s *progressService) Summary(ctx context.Context, p types.Principal) (*ProgressSummary, error) {
	if err := requirePrincipal("progress.summary", p); err != nil {
		return nil, err
	}

	var (
		skills      []*types.SkillAssessment
		items       []*types.GrowthItem
		reflections []*types.ReflectionEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skills, err = s.skillRepo.ListByUser(dbctx.New(gctx), p.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.growthRepo.ListByUser(dbctx.New(gctx), p.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		reflections, err = s.reflectionRepo.ListByUser(dbctx.New(gctx), p.UserID, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ProgressSummary{
		OverallProgress: skillProgress(skills),
		TotalItems:      len(items),
		ReflectionCount: len(reflections),
		SkillGaps:       growth.GapsFrom(skills),
		SkillsByArea:    groupByArea(skills),
	}
	for _, it := range items {
		switch it.Status {
		case growth.StatusDone:
			out.CompletedItems++
		case growth.StatusInProgress:
			out.InProgressItems++
		}
	}
	return out, nil
}

// skillProgress averages current/target per skill as a percentage, each
// skill capped at 100.
func skillProgress(skills []*types.SkillAssessment) int {
	if len(skills) == 0 {
		return 0
	}
	total := 0.0
	for _, sk := range skills {
		pct := float64(growth.ClampLevel(sk.CurrentLevel)) / float64(growth.ClampLevel(sk.TargetLevel)) * 100
		if pct > 100 {
			pct = 100
		}
		total += pct
	}
	return int(total/float64(len(skills)) + 0.5)
}

func groupByArea(skills []*types.SkillAssessment) []AreaProgress {
	idx := map[string]int{}
	out := []AreaProgress{}
	for _, sk := range skills {
		i, ok := idx[sk.Area]
		if !ok {
			i = len(out)
			idx[sk.Area] = i
			out = append(out, AreaProgress{Area: sk.Area})
		}
		out[i].Skills = append(out[i].Skills, sk)
	}
	for i := range out {
		out[i].Progress = skillProgress(out[i].Skills)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Area < out[j].Area })
	return out
}
