package growth

import (
	"time"

	"github.com/google/uuid"
)

type GrowthItemType string

const (
	GrowthItemBook    GrowthItemType = "book"
	GrowthItemCourse  GrowthItemType = "course"
	GrowthItemHabit   GrowthItemType = "habit"
	GrowthItemMission GrowthItemType = "mission"
)

var GrowthItemTypes = []string{
	string(GrowthItemBook),
	string(GrowthItemCourse),
	string(GrowthItemHabit),
	string(GrowthItemMission),
}

func (t GrowthItemType) Valid() bool {
	switch t {
	case GrowthItemBook, GrowthItemCourse, GrowthItemHabit, GrowthItemMission:
		return true
	}
	return false
}

type GrowthItemStatus string

const (
	StatusPending    GrowthItemStatus = "pending"
	StatusInProgress GrowthItemStatus = "in_progress"
	StatusDone       GrowthItemStatus = "done"
)

func (s GrowthItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// GrowthItem is a single book, course, habit or mission in a user's plan.
// Items are only ever mutated through status transitions.
type GrowthItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_growth_item_user_created,priority:1" json:"userId"`
	Type        GrowthItemType   `gorm:"column:type;not null;check:chk_growth_item_type,type IN ('book','course','habit','mission')" json:"type"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description string           `gorm:"column:description;not null" json:"description"`
	Link        *string          `gorm:"column:link" json:"link"`
	Status      GrowthItemStatus `gorm:"column:status;not null;check:chk_growth_item_status,status IN ('pending','in_progress','done')" json:"status"`
	CreatedAt   time.Time        `gorm:"not null;index:idx_growth_item_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updatedAt"`
}

func (GrowthItem) TableName() string { return "growth_items" }
