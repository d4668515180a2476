package handlers

import (
	"net/http"
	"strconv"

	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the operator endpoints behind JWT auth
type AdminHandler struct {
	decay *services.DecayService
	users *services.UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(decay *services.DecayService, users *services.UserService) *AdminHandler {
	return &AdminHandler{
		decay: decay,
		users: users,
	}
}

// RunDecay handles POST /admin/decay/run. With year and month query
// parameters it targets an explicit period, otherwise the month before the
// current one.
func (h *AdminHandler) RunDecay(c *gin.Context) {
	rawYear, rawMonth := c.Query("year"), c.Query("month")

	var processed int
	var err error
	if rawYear != "" || rawMonth != "" {
		year, yerr := strconv.Atoi(rawYear)
		month, merr := strconv.Atoi(rawMonth)
		if yerr != nil || merr != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year and month must both be valid integers"})
			return
		}
		processed, err = h.decay.RunForPeriod(c.Request.Context(), year, month)
	} else {
		processed, err = h.decay.Run(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.users.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
