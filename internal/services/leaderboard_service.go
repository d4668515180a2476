package services

import (
	"context"
	"fmt"

	"github.com/cesarbot/kudos-backend/internal/levels"
	"github.com/cesarbot/kudos-backend/internal/repositories"
)

// RankedUser is one leaderboard row.
type RankedUser struct {
	Position int    `json:"position"`
	UserID   string `json:"userId"`
	Points   int    `json:"points"`
	Level    int    `json:"level"`
	Avatar   string `json:"avatar"`
	Title    string `json:"title"`
}

// UserStats is the requester's own standing, appended to ranking output.
type UserStats struct {
	UserID        string `json:"userId"`
	Rank          int    `json:"rank"`
	Points        int    `json:"points"`
	Level         int    `json:"level"`
	Avatar        string `json:"avatar"`
	Title         string `json:"title"`
	ReceivedTotal int    `json:"receivedTotal"`
	PointsToNext  int    `json:"pointsToNext"`
}

// LeaderboardService serves read-only ranking projections over the store.
type LeaderboardService struct {
	userRepo repositories.UserRepository
	statRepo repositories.MonthlyStatRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(userRepo repositories.UserRepository, statRepo repositories.MonthlyStatRepository) *LeaderboardService {
	return &LeaderboardService{
		userRepo: userRepo,
		statRepo: statRepo,
	}
}

// Top returns the highest-balance users with their cosmetic decorations.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]RankedUser, error) {
	users, err := s.userRepo.FindTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("find top users: %w", err)
	}

	ranked := make([]RankedUser, 0, len(users))
	for i, user := range users {
		ranked = append(ranked, RankedUser{
			Position: i + 1,
			UserID:   user.UserID,
			Points:   user.Points,
			Level:    user.Level,
			Avatar:   levels.AvatarForLevel(user.Level),
			Title:    levels.TitleForLevel(user.Level),
		})
	}
	return ranked, nil
}

// StatsFor returns the user's own rank, balance and progress toward the next
// level.
func (s *LeaderboardService) StatsFor(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	rank, err := s.userRepo.Rank(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rank for %s: %w", userID, err)
	}
	received, err := s.statRepo.TotalReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("received total for %s: %w", userID, err)
	}

	return &UserStats{
		UserID:        userID,
		Rank:          rank,
		Points:        user.Points,
		Level:         user.Level,
		Avatar:        levels.AvatarForLevel(user.Level),
		Title:         levels.TitleForLevel(user.Level),
		ReceivedTotal: received,
		PointsToNext:  levels.PointsToNextLevel(user.Points),
	}, nil
}
