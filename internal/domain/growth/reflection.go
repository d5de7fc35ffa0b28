package growth

import (
	"time"

	"github.com/google/uuid"
)

type ReflectionType string

const (
	ReflectionGeneral      ReflectionType = "general"
	ReflectionWeeklyReview ReflectionType = "weekly_review"
	ReflectionMentalModel  ReflectionType = "mental_model"
)

func (t ReflectionType) Valid() bool {
	switch t {
	case ReflectionGeneral, ReflectionWeeklyReview, ReflectionMentalModel:
		return true
	}
	return false
}

// ReflectionEntry is an append-only journal entry.
type ReflectionEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_reflection_user_created,priority:1" json:"userId"`
	Content   string         `gorm:"column:content;not null" json:"content"`
	Type      ReflectionType `gorm:"column:type;not null" json:"type"`
	CreatedAt time.Time      `gorm:"not null;index:idx_reflection_user_created,priority:2" json:"createdAt"`
}

func (ReflectionEntry) TableName() string { return "reflection_entries" }
