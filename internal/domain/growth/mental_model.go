package growth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MentalModelCount is the exact number of models a coaching session holds.
const MentalModelCount = 5

type MentalModel struct {
	Name            string `json:"name"`
	Explanation     string `json:"explanation"`
	NewPerspective  string `json:"newPerspective"`
	KeyInsight      string `json:"keyInsight"`
	PracticalAction string `json:"practicalAction"`
}

type MentalModelSession struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                        `gorm:"type:uuid;not null;index:idx_mental_model_user_created,priority:1" json:"userId"`
	Prompt    string                           `gorm:"column:prompt;not null" json:"prompt"`
	Models    datatypes.JSONSlice[MentalModel] `gorm:"column:models;not null" json:"models"`
	CreatedAt time.Time                        `gorm:"not null;index:idx_mental_model_user_created,priority:2" json:"createdAt"`
}

func (MentalModelSession) TableName() string { return "mental_model_sessions" }
