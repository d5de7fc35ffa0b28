package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

const mentalModelListLimit = 50

type MentalModelService interface {
	Coach(ctx context.Context, p types.Principal, prompt string) (*types.MentalModelSession, error)
	List(ctx context.Context, p types.Principal) ([]*types.MentalModelSession, error)
	Get(ctx context.Context, p types.Principal, id uuid.UUID) (*types.MentalModelSession, error)
	// SaveToJournal copies a session into the reflection journal.
	SaveToJournal(ctx context.Context, p types.Principal, sessionID uuid.UUID) (*types.ReflectionEntry, error)
}

type mentalModelService struct {
	log            *logger.Logger
	engine         *generation.Engine
	sessionRepo    repos.MentalModelSessionRepo
	reflectionRepo repos.ReflectionRepo
}

func NewMentalModelService(log *logger.Logger, engine *generation.Engine, sessionRepo repos.MentalModelSessionRepo, reflectionRepo repos.ReflectionRepo) MentalModelService {
	return &mentalModelService{
		log:            log.With("service", "MentalModelService"),
		engine:         engine,
		sessionRepo:    sessionRepo,
		reflectionRepo: reflectionRepo,
	}
}

func (s *mentalModelService) Coach(ctx context.Context, p types.Principal, prompt string) (*types.MentalModelSession, error) {
	const op = "mental_models.coach"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	prompt, err := requireText(op, "prompt", prompt, maxCoachPromptLen)
	if err != nil {
		return nil, err
	}

	return generation.Run(ctx, s.engine, generation.Job[growth.MentalModelSet, *types.MentalModelSession]{
		Name:   "mental_models",
		Prompt: prompts.PromptMentalModels,
		Input:  prompts.Input{Prompt: prompt},
		Schema: schema.MentalModels(),
		Persist: func(ctx context.Context, set growth.MentalModelSet) (*types.MentalModelSession, error) {
			created, err := s.sessionRepo.Create(dbctx.New(ctx), &types.MentalModelSession{
				UserID: p.UserID,
				Prompt: prompt,
				Models: set.Models,
			})
			if err != nil {
				return nil, err
			}
			s.log.Info("mental model session saved", "user_id", p.UserID, "session_id", created.ID)
			return created, nil
		},
	})
}

func (s *mentalModelService) List(ctx context.Context, p types.Principal) ([]*types.MentalModelSession, error) {
	if err := requirePrincipal("mental_models.list", p); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByUser(dbctx.New(ctx), p.UserID, mentalModelListLimit)
}

func (s *mentalModelService) Get(ctx context.Context, p types.Principal, id uuid.UUID) (*types.MentalModelSession, error) {
	const op = "mental_models.get"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, apperr.New(apperr.CodeInvalidArgument, op, "id is required")
	}
	return s.sessionRepo.GetByID(dbctx.New(ctx), p.UserID, id)
}

func (s *mentalModelService) SaveToJournal(ctx context.Context, p types.Principal, sessionID uuid.UUID) (*types.ReflectionEntry, error) {
	session, err := s.Get(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}
	return s.reflectionRepo.Create(dbctx.New(ctx), &types.ReflectionEntry{
		UserID:  p.UserID,
		Content: formatSessionForJournal(session),
		Type:    growth.ReflectionMentalModel,
	})
}

func formatSessionForJournal(s *types.MentalModelSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mental Models Analysis for: %q\n\n", s.Prompt)
	for i, m := range s.Models {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\nInsight: %s\nAction: %s\n", i+1, m.Name, m.KeyInsight, m.PracticalAction)
	}
	return b.String()
}
