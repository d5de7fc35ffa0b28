package growth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/force-backend/internal/data/dberr"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

type SkillAssessmentRepo interface {
	// Upsert is keyed on (user_id, skill_id) and relies on the store's
	// conflict resolution, so concurrent saves never duplicate a row.
	Upsert(dbc dbctx.Context, s *types.SkillAssessment) (*types.SkillAssessment, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillAssessment, error)
}

type skillAssessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) SkillAssessmentRepo {
	return &skillAssessmentRepo{db: db, log: baseLog.With("repo", "SkillAssessmentRepo")}
}

func (r *skillAssessmentRepo) Upsert(dbc dbctx.Context, s *types.SkillAssessment) (*types.SkillAssessment, error) {
	now := time.Now().UTC()
	row := *s
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = now
	row.UpdatedAt = now

	var out types.SkillAssessment
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"area",
				"name",
				"target_level",
				"current_level",
				"examples",
				"recommended_resources",
				"updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND skill_id = ?", row.UserID, row.SkillID).First(&out).Error
	})
	if err != nil {
		return nil, dberr.MapError("skill_assessment.upsert", err)
	}
	return &out, nil
}

func (r *skillAssessmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillAssessment, error) {
	var out []*types.SkillAssessment
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("area").
		Order("name").
		Find(&out).Error; err != nil {
		return nil, dberr.MapError("skill_assessment.list", err)
	}
	return out, nil
}
