package handlers

import (
	"net/http"
	"strconv"

	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler serves profile and avatar customization endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateAvatarRequest is the payload for avatar customization
type UpdateAvatarRequest struct {
	ImageURL string              `json:"imageUrl"`
	Prompt   string              `json:"prompt"`
	Config   models.AvatarConfig `json:"config" binding:"required"`
}

// UpdateAvatar handles PUT /users/:id/avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.Param("id")
	if err := h.users.UpdateAvatar(c.Request.Context(), userID, req.ImageURL, req.Prompt, req.Config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// GetRecentAwards handles GET /users/:id/awards
func (h *UserHandler) GetRecentAwards(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	awards, err := h.users.RecentAwardsGiven(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"awards": awards})
}
