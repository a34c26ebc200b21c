package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile is a local snapshot of identity data owned by the auth/profile
// service: display name for leaderboards and member/trainer classification
// for check-ins. Rows are upserted by signup hooks, not managed here.
type UserProfile struct {
	ID          string   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string   `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string   `gorm:"not null" json:"display_name"`
	UserType    UserType `gorm:"type:varchar(16);not null;default:'member'" json:"user_type"`
	Email       string   `json:"email,omitempty"`
	AvatarURL   *string  `json:"avatar_url,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserProfile) TableName() string { return "user_profiles" }
