package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedCatalog inserts the built-in achievement catalog, skipping codes that
// already exist (admins may have edited them).
func (s *AchievementService) SeedCatalog() error {
	for _, ach := range models.SeedAchievements {
		a := ach
		res := s.DB.Where("code = ?", a.Code).FirstOrCreate(&a)
		if res.Error != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.Code, res.Error)
		}
	}
	return nil
}

// matches tells whether a catalog entry is triggered by this event. Special
// achievements are granted manually, never by the event loop.
func matches(ach *models.Achievement, action string) bool {
	switch ach.RequirementType {
	case models.RequirementCount:
		return ach.Category == action
	case models.RequirementStreak:
		return action == "streak"
	case models.RequirementGoal:
		return action == "goal"
	default:
		return false
	}
}

// UnlockTx scans the catalog for achievements triggered by (action, value)
// and unlocks the ones the user does not have yet, crediting their points
// onto stats. The unique index on user_achievements makes the insert a
// no-op when another request got there first, so an achievement is only
// ever reported as newly unlocked once.
func (s *AchievementService) UnlockTx(tx *gorm.DB, stats *models.GamificationStats, action string, value int64) ([]models.Achievement, error) {
	var catalog []models.Achievement
	if err := tx.Where("requirement_value <= ?", value).Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	var newly []models.Achievement
	for i := range catalog {
		ach := catalog[i]
		if !matches(&ach, action) {
			continue
		}

		ua := models.UserAchievement{
			UserID:        stats.UserID,
			AchievementID: ach.ID,
			PointsEarned:  ach.Points,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to unlock achievement %s: %w", ach.Code, res.Error)
		}
		if res.RowsAffected == 0 {
			continue // already unlocked
		}

		stats.AchievementsUnlocked++
		stats.TotalPoints += ach.Points
		newly = append(newly, ach)

		logger.Logger.Info("achievement unlocked",
			zap.String("user_id", stats.UserID),
			zap.String("code", ach.Code),
			zap.Int64("points", ach.Points),
		)
	}
	return newly, nil
}

// ListWithStatus returns the full catalog decorated with the user's unlocks.
func (s *AchievementService) ListWithStatus(ctx context.Context, userID string) ([]models.AchievementWithStatus, error) {
	var catalog []models.Achievement
	if err := s.DB.WithContext(ctx).Order("requirement_value ASC").Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	var unlocks []models.UserAchievement
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
		return nil, fmt.Errorf("failed to load user achievements: %w", err)
	}
	unlockedAt := make(map[string]*models.UserAchievement, len(unlocks))
	for i := range unlocks {
		unlockedAt[unlocks[i].AchievementID] = &unlocks[i]
	}

	result := make([]models.AchievementWithStatus, 0, len(catalog))
	for _, ach := range catalog {
		entry := models.AchievementWithStatus{Achievement: ach}
		if ua, ok := unlockedAt[ach.ID]; ok {
			entry.Unlocked = true
			t := ua.UnlockedAt
			entry.UnlockedAt = &t
		}
		result = append(result, entry)
	}
	return result, nil
}

// CreateAchievementInput is the admin payload for extending the catalog.
type CreateAchievementInput struct {
	Name             string                 `json:"name" validate:"required,max=100"`
	Description      string                 `json:"description" validate:"max=500"`
	Category         string                 `json:"category" validate:"required,oneof=checkin workout streak goal special"`
	RequirementType  models.RequirementType `json:"requirement_type" validate:"required,oneof=count streak goal special"`
	RequirementValue int64                  `json:"requirement_value" validate:"required,min=1"`
	Points           int64                  `json:"points" validate:"min=0"`
	IconURL          string                 `json:"icon_url"`
}

// Create adds an admin-defined achievement; the code is slugified from the name.
func (s *AchievementService) Create(ctx context.Context, input CreateAchievementInput) (*models.Achievement, error) {
	code := strings.ToUpper(strings.ReplaceAll(slug.Make(input.Name), "-", "_"))

	ach := models.Achievement{
		Code:             code,
		Name:             input.Name,
		Description:      input.Description,
		Category:         input.Category,
		RequirementType:  input.RequirementType,
		RequirementValue: input.RequirementValue,
		Points:           input.Points,
		IconURL:          input.IconURL,
	}
	if err := s.DB.WithContext(ctx).Create(&ach).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAchievementExists
		}
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return &ach, nil
}
