package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUID primary keys are assigned client-side so the models work the same
// against Postgres and the sqlite test database.

func (s *CheckInSession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *GamificationStats) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (a *Achievement) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (ua *UserAchievement) BeforeCreate(*gorm.DB) error {
	if ua.ID == "" {
		ua.ID = uuid.NewString()
	}
	return nil
}

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
