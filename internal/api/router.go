package api

import (
	"github.com/gin-gonic/gin"

	"github.com/py-dev-nandini-12/tier-system/internal/websocket"
)

// SetupRouter initializes the Gin router and sets up the routes.
func SetupRouter(h *Handler, wsManager *websocket.Manager) *gin.Engine {
	r := gin.Default()
	r.Use(ErrorMiddleware())

	// Mutation routes
	r.POST("/create_user/:username", h.CreateUser)
	r.POST("/earn_points/:username/:type/:amount", h.EarnPoints)

	// Read routes
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/user/:username/points", h.GetPointHistory)

	// Live updates
	r.GET("/ws", func(c *gin.Context) {
		wsManager.HandleWebSocket(c.Writer, c.Request)
	})

	return r
}
