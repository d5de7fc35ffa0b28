package growth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/dberr"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type MentalModelSessionRepo interface {
	Create(dbc dbctx.Context, s *types.MentalModelSession) (*types.MentalModelSession, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MentalModelSession, error)
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.MentalModelSession, error)
}

type mentalModelSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMentalModelSessionRepo(db *gorm.DB, baseLog *logger.Logger) MentalModelSessionRepo {
	return &mentalModelSessionRepo{db: db, log: baseLog.With("repo", "MentalModelSessionRepo")}
}

func (r *mentalModelSessionRepo) Create(dbc dbctx.Context, s *types.MentalModelSession) (*types.MentalModelSession, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, dberr.MapError("mental_model_session.create", err)
	}
	return s, nil
}

func (r *mentalModelSessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MentalModelSession, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.MentalModelSession
	if err := q.Find(&out).Error; err != nil {
		return nil, dberr.MapError("mental_model_session.list", err)
	}
	return out, nil
}

func (r *mentalModelSessionRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.MentalModelSession, error) {
	var out types.MentalModelSession
	err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "mental_model_session.get", "session not found", err)
	}
	if err != nil {
		return nil, dberr.MapError("mental_model_session.get", err)
	}
	return &out, nil
}
