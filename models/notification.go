package models

import (
	"time"
)

type NotificationType string

const (
	NotificationAchievementUnlocked NotificationType = "achievement_unlocked"
	NotificationStreakExpired       NotificationType = "streak_expired"
	NotificationStreakFrozen        NotificationType = "streak_frozen"
)

// Notification is a persisted in-app notification, written by the worker
// that drains the gamification event queue. Delivery (push) is out of scope.
type Notification struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string           `gorm:"index;not null" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	Read      bool             `gorm:"default:false;index" json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }

// GamificationEvent is the wire shape published to RabbitMQ by the services
// and consumed by workers.NotificationWorker.
type GamificationEvent struct {
	Type       NotificationType `json:"type"`
	UserID     string           `json:"user_id"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	OccurredAt time.Time        `json:"occurred_at"`
}
