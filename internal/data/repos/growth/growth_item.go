package growth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/dberr"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	domgrowth "github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

const createBatchSize = 50

type GrowthItemRepo interface {
	// CreateBatch inserts every item or none of them.
	CreateBatch(dbc dbctx.Context, items []*types.GrowthItem) ([]*types.GrowthItem, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.GrowthItem, error)
	UpdateStatus(dbc dbctx.Context, userID, itemID uuid.UUID, status types.GrowthItemStatus) (*types.GrowthItem, error)
}

type growthItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGrowthItemRepo(db *gorm.DB, baseLog *logger.Logger) GrowthItemRepo {
	return &growthItemRepo{db: db, log: baseLog.With("repo", "GrowthItemRepo")}
}

func (r *growthItemRepo) CreateBatch(dbc dbctx.Context, items []*types.GrowthItem) ([]*types.GrowthItem, error) {
	if len(items) == 0 {
		return []*types.GrowthItem{}, nil
	}
	now := time.Now().UTC()
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Status == "" {
			it.Status = domgrowth.StatusPending
		}
		it.CreatedAt = now
		it.UpdatedAt = now
	}

	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(items, createBatchSize).Error
	})
	if err != nil {
		r.log.Warn("growth item batch rolled back", "count", len(items), "error", err)
		return nil, dberr.MapError("growth_item.create_batch", err)
	}
	return items, nil
}

func (r *growthItemRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.GrowthItem, error) {
	var out []*types.GrowthItem
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Find(&out).Error; err != nil {
		return nil, dberr.MapError("growth_item.list", err)
	}
	return out, nil
}

// UpdateStatus only touches rows owned by userID; anything else is NotFound.
func (r *growthItemRepo) UpdateStatus(dbc dbctx.Context, userID, itemID uuid.UUID, status types.GrowthItemStatus) (*types.GrowthItem, error) {
	var out types.GrowthItem
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&types.GrowthItem{}).
			Where("id = ? AND user_id = ?", itemID, userID).
			Updates(map[string]any{
				"status":     status,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeNotFound, "growth_item.update_status", "growth item not found")
		}
		return tx.Where("id = ?", itemID).First(&out).Error
	})
	if err != nil {
		return nil, dberr.MapError("growth_item.update_status", err)
	}
	return &out, nil
}
