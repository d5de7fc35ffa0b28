package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User owns at most one role description and one generated target profile.
// Regenerating the profile overwrites both.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name            string         `gorm:"not null;column:name" json:"name"`
	GoogleID        *string        `gorm:"uniqueIndex;column:google_id" json:"-"`
	Picture         string         `gorm:"column:picture" json:"picture,omitempty"`
	RoleDescription *string        `gorm:"column:role_description" json:"roleDescription"`
	TargetProfile   datatypes.JSON `gorm:"column:target_profile" json:"targetProfile"`
	CreatedAt       time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
