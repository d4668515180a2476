package handlers

import (
	"net/http"
	"strconv"

	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// LeaderboardHandler serves the read-only ranking API
type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetTop handles GET /leaderboard
func (h *LeaderboardHandler) GetTop(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	top, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

// GetUserStats handles GET /users/:id/stats
func (h *LeaderboardHandler) GetUserStats(c *gin.Context) {
	userID := c.Param("id")
	stats, err := h.leaderboard.StatsFor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
