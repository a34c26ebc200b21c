package models

import (
	"time"
)

// UserType classifies who is attending: a club member or a trainer.
type UserType string

const (
	UserTypeMember  UserType = "member"
	UserTypeTrainer UserType = "trainer"
)

// CheckInSession is one open-or-closed attendance interval at the gym.
// The partial unique index enforces at most one open row per user at the
// database level; the service-level cleanup exists for drifted data only.
type CheckInSession struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"index;not null;uniqueIndex:uniq_open_checkin,where:is_checked_in" json:"user_id"`
	UserType      UserType   `gorm:"type:varchar(16);not null;default:'member'" json:"user_type"`
	CheckInTime   time.Time  `gorm:"not null" json:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	IsCheckedIn   bool       `gorm:"not null;default:false" json:"is_checked_in"`
	CheckInReason string     `gorm:"type:text" json:"check_in_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CheckInSession) TableName() string { return "gym_checkins" }

// DurationMinutes returns whole elapsed minutes, using now for open sessions.
func (s *CheckInSession) DurationMinutes(now time.Time) int {
	end := now
	if s.CheckOutTime != nil {
		end = *s.CheckOutTime
	}
	d := end.Sub(s.CheckInTime)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// CheckInStatus is the read-model returned by the status endpoint.
type CheckInStatus struct {
	HasRecord       bool            `json:"has_record"`
	IsCheckedIn     bool            `json:"is_checked_in"`
	Session         *CheckInSession `json:"session,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
}
