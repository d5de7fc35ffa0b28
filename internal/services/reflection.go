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

type ReflectionService interface {
	// Create appends an entry; an empty type means general.
	Create(ctx context.Context, p types.Principal, content, typ string) (*types.ReflectionEntry, error)
	// List returns newest first, optionally filtered by type.
	List(ctx context.Context, p types.Principal, typ string) ([]*types.ReflectionEntry, error)
}

type reflectionService struct {
	log            *logger.Logger
	reflectionRepo repos.ReflectionRepo
}

func NewReflectionService(log *logger.Logger, reflectionRepo repos.ReflectionRepo) ReflectionService {
	return &reflectionService{
		log:            log.With("service", "ReflectionService"),
		reflectionRepo: reflectionRepo,
	}
}

func (s *reflectionService) Create(ctx context.Context, p types.Principal, content, typ string) (*types.ReflectionEntry, error) {
	const op = "reflections.create"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	content, err := requireText(op, "content", content, maxReflectionLen)
	if err != nil {
		return nil, err
	}
	rt := growth.ReflectionGeneral
	if t := strings.TrimSpace(typ); t != "" {
		rt = growth.ReflectionType(t)
	}
	if !rt.Valid() {
		return nil, apperr.New(apperr.CodeInvalidArgument, op, "type must be one of general, weekly_review, mental_model")
	}
	return s.reflectionRepo.Create(dbctx.New(ctx), &types.ReflectionEntry{
		UserID:  p.UserID,
		Content: content,
		Type:    rt,
	})
}

func (s *reflectionService) List(ctx context.Context, p types.Principal, typ string) ([]*types.ReflectionEntry, error) {
	const op = "reflections.list"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	rt := growth.ReflectionType(strings.TrimSpace(typ))
	if rt != "" && !rt.Valid() {
		return nil, apperr.New(apperr.CodeInvalidArgument, op, "type must be one of general, weekly_review, mental_model")
	}
	return s.reflectionRepo.ListByUser(dbctx.New(ctx), p.UserID, rt)
}
