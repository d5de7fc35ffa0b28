package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/dberr"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	// FindByGoogleID and FindByEmail return (nil, nil) when nothing matches.
	FindByGoogleID(dbc dbctx.Context, googleID string) (*types.User, error)
	FindByEmail(dbc dbctx.Context, email string) (*types.User, error)
	UpdateIdentity(dbc dbctx.Context, id uuid.UUID, googleID, name, picture string) (*types.User, error)
	SetTargetProfile(dbc dbctx.Context, id uuid.UUID, roleDescription string, profile datatypes.JSON) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, u *types.User) (*types.User, error) {
	if u == nil {
		return nil, apperr.New(apperr.CodeInvalidArgument, "user.create", "user is required")
	}
	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if err := dbc.DB(ur.db).Create(u).Error; err != nil {
		return nil, dberr.MapError("user.create", err)
	}
	return u, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var out types.User
	if err := dbc.DB(ur.db).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.CodeNotFound, "user.get", "user not found", err)
		}
		return nil, dberr.MapError("user.get", err)
	}
	return &out, nil
}

func (ur *userRepo) FindByGoogleID(dbc dbctx.Context, googleID string) (*types.User, error) {
	return ur.findOne(dbc, "user.find_by_google_id", "google_id = ?", googleID)
}

func (ur *userRepo) FindByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	return ur.findOne(dbc, "user.find_by_email", "email = ?", email)
}

func (ur *userRepo) findOne(dbc dbctx.Context, op, where string, arg any) (*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).Where(where, arg).Limit(1).Find(&results).Error; err != nil {
		return nil, dberr.MapError(op, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) UpdateIdentity(dbc dbctx.Context, id uuid.UUID, googleID, name, picture string) (*types.User, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"google_id":  googleID,
			"name":       name,
			"picture":    picture,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, dberr.MapError("user.update_identity", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "user.update_identity", "user not found")
	}
	return ur.GetByID(dbc, id)
}

// SetTargetProfile overwrites the role description and profile in one update.
// Concurrent regenerations are last-writer-wins.
func (ur *userRepo) SetTargetProfile(dbc dbctx.Context, id uuid.UUID, roleDescription string, profile datatypes.JSON) error {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"role_description": roleDescription,
			"target_profile":   profile,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return dberr.MapError("user.set_target_profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "user.set_target_profile", "user not found")
	}
	return nil
}
