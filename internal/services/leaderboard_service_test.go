package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardTopOrdersByPoints(t *testing.T) {
	userRepo := newFakeUserRepo()
	statRepo := newFakeStatRepo(userRepo)
	service := NewLeaderboardService(userRepo, statRepo)
	ctx := context.Background()

	require.NoError(t, userRepo.SetBalance(ctx, "U1", 10, 5))
	require.NoError(t, userRepo.SetBalance(ctx, "U2", 45, 10))
	require.NoError(t, userRepo.SetBalance(ctx, "U3", 3, 3))

	ranked, err := service.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "U2", ranked[0].UserID)
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 45, ranked[0].Points)
	assert.Equal(t, "Banana King", ranked[0].Title)

	assert.Equal(t, "U1", ranked[1].UserID)
	assert.Equal(t, 2, ranked[1].Position)
}

func TestLeaderboardStatsFor(t *testing.T) {
	userRepo := newFakeUserRepo()
	statRepo := newFakeStatRepo(userRepo)
	service := NewLeaderboardService(userRepo, statRepo)
	ctx := context.Background()

	require.NoError(t, userRepo.SetBalance(ctx, "U1", 4, 3))
	require.NoError(t, userRepo.SetBalance(ctx, "U2", 10, 5))
	require.NoError(t, statRepo.IncrementReceived(ctx, "U1", 2026, 4))
	require.NoError(t, statRepo.IncrementReceived(ctx, "U1", 2026, 5))

	stats, err := service.StatsFor(ctx, "U1")
	require.NoError(t, err)

	assert.Equal(t, "U1", stats.UserID)
	assert.Equal(t, 2, stats.Rank)
	assert.Equal(t, 4, stats.Points)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 2, stats.ReceivedTotal)
	// Level 4 opens at 6 points.
	assert.Equal(t, 2, stats.PointsToNext)
}

func TestLeaderboardStatsForCreatesUnknownUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	statRepo := newFakeStatRepo(userRepo)
	service := NewLeaderboardService(userRepo, statRepo)

	stats, err := service.StatsFor(context.Background(), "UNEW")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Points)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 1, stats.PointsToNext)
}
