package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
)

const leaderboardSize = 50

// GetLeaderboard returns the top users by total points, 1-based ranks.
// Ties keep the underlying query order; no tie-break rule is defined.
// The result is served from cache when fresh; cache trouble degrades to a
// direct query, never to an error.
func (s *GamificationService) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if cached, err := s.Leaderboard.Get(ctx); err != nil {
		logger.Logger.Warn("leaderboard cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	type row struct {
		UserID        string
		DisplayName   string
		TotalPoints   int64
		CurrentLevel  int
		CurrentStreak int
	}
	var rows []row
	err := s.DB.WithContext(ctx).
		Table("user_gamification_stats AS s").
		Select("s.user_id, p.display_name, s.total_points, s.current_level, s.current_streak").
		Joins("LEFT JOIN user_profiles p ON p.user_id = s.user_id AND p.deleted_at IS NULL").
		Order("s.total_points DESC").
		Limit(leaderboardSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		name := r.DisplayName
		if name == "" {
			name = "Member"
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      r.UserID,
			DisplayName: name,
			TotalPoints: r.TotalPoints,
			Level:       r.CurrentLevel,
			Streak:      r.CurrentStreak,
		})
	}

	if err := s.Leaderboard.Set(ctx, entries); err != nil {
		logger.Logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return entries, nil
}
