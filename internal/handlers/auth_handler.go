package handlers

import (
	"errors"
	"net/http"

	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the admin login endpoint
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
