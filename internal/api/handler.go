package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/py-dev-nandini-12/tier-system/internal/errors"
	"github.com/py-dev-nandini-12/tier-system/internal/rewards"
)

// Handler exposes the rewards service over HTTP.
type Handler struct {
	svc rewards.Service
}

func NewHandler(svc rewards.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateUser handles POST /create_user/:username
func (h *Handler) CreateUser(c *gin.Context) {
	username := c.Param("username")

	user, err := h.svc.CreateUser(c.Request.Context(), username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %s created successfully", username),
		"user":    user,
	})
}

// EarnPoints handles POST /earn_points/:username/:type/:amount
func (h *Handler) EarnPoints(c *gin.Context) {
	username := c.Param("username")
	entryType := c.Param("type")

	amount, err := strconv.ParseInt(c.Param("amount"), 10, 64)
	if err != nil {
		c.Error(&apperrors.APIError{
			StatusCode: http.StatusBadRequest,
			Message:    "amount must be an integer",
			Err:        err,
		})
		return
	}

	user, err := h.svc.EarnPoints(c.Request.Context(), username, entryType, amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d points earned by %s. Current points: %d.", amount, username, user.Points),
		"user":    user,
	})
}

// GetLeaderboard handles GET /leaderboard
func (h *Handler) GetLeaderboard(c *gin.Context) {
	leaderboard, err := h.svc.Leaderboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}

// GetPointHistory handles GET /user/:username/points
func (h *Handler) GetPointHistory(c *gin.Context) {
	username := c.Param("username")

	history, err := h.svc.PointHistory(c.Request.Context(), username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
