package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/force-backend/internal/data/dberr"
	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type UserService interface {
	Create(ctx context.Context, email, name string) (*types.User, error)
	// Get only returns the caller's own record; anyone else's is NotFound.
	Get(ctx context.Context, p types.Principal, id uuid.UUID) (*types.User, error)
	Me(ctx context.Context, p types.Principal) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) Create(ctx context.Context, email, name string) (*types.User, error) {
	const op = "user.create"
	email, err := normalizeEmail(op, email)
	if err != nil {
		return nil, err
	}
	name, err = requireText(op, "name", name, 200)
	if err != nil {
		return nil, err
	}
	created, err := us.userRepo.Create(dbctx.New(ctx), &types.User{Email: email, Name: name})
	if err != nil {
		if errors.Is(err, dberr.ErrConflict) {
			return nil, apperr.Wrap(apperr.CodeInvalidArgument, op, "a user with this email already exists", err)
		}
		us.log.Warn("create user failed", "error", err)
		return nil, err
	}
	us.log.Info("user created", "user_id", created.ID)
	return created, nil
}

func (us *userService) Get(ctx context.Context, p types.Principal, id uuid.UUID) (*types.User, error) {
	const op = "user.get"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	if id != p.UserID {
		return nil, apperr.New(apperr.CodeNotFound, op, "user not found")
	}
	return us.userRepo.GetByID(dbctx.New(ctx), id)
}

func (us *userService) Me(ctx context.Context, p types.Principal) (*types.User, error) {
	const op = "user.me"
	if err := requirePrincipal(op, p); err != nil {
		return nil, err
	}
	return us.userRepo.GetByID(dbctx.New(ctx), p.UserID)
}

func normalizeEmail(op, raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", apperr.New(apperr.CodeInvalidArgument, op, "email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", apperr.New(apperr.CodeInvalidArgument, op, "email is invalid")
	}
	return s, nil
}
