package growth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/dberr"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type ReflectionRepo interface {
	Create(dbc dbctx.Context, e *types.ReflectionEntry) (*types.ReflectionEntry, error)
	// ListByUser filters by entry type when typ is non-empty.
	ListByUser(dbc dbctx.Context, userID uuid.UUID, typ types.ReflectionType) ([]*types.ReflectionEntry, error)
}

type reflectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionRepo {
	return &reflectionRepo{db: db, log: baseLog.With("repo", "ReflectionRepo")}
}

func (r *reflectionRepo) Create(dbc dbctx.Context, e *types.ReflectionEntry) (*types.ReflectionEntry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).Create(e).Error; err != nil {
		return nil, dberr.MapError("reflection.create", err)
	}
	return e, nil
}

func (r *reflectionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, typ types.ReflectionType) ([]*types.ReflectionEntry, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var out []*types.ReflectionEntry
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, dberr.MapError("reflection.list", err)
	}
	return out, nil
}
