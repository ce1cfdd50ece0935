package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/py-dev-nandini-12/tier-system/internal/errors"
	"github.com/py-dev-nandini-12/tier-system/pkg/logger"
)

// ErrorMiddleware maps the error taxonomy onto HTTP statuses. User errors
// (duplicate, unknown user, bad amount) are client-facing; store failures
// surface as 500 and are never reported as success.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			switch e := err.(type) {
			case *apperrors.AlreadyExistsError:
				c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
			case *apperrors.NotFoundError:
				c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
			case *apperrors.InvalidAmountError:
				c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
			case *apperrors.APIError:
				logger.Error("API error: %v", e)
				c.JSON(e.StatusCode, gin.H{"error": e.Message})
			case *apperrors.DatabaseError:
				logger.Error("Database error: %v", e)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			default:
				logger.Error("Unexpected error: %v", e)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
		}
	}
}
