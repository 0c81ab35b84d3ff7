package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/superbill/pos-api/pkg/global"
)

func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		if sessionID == "" || len(sessionID) > 100 {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid session id", []global.ValidationError{
				{Field: "sessionId", Message: "session id must be between 1 and 100 characters", Code: "invalid_format"},
			}))
			c.Abort()
			return
		}

		c.Set("sessionId", sessionID)
		c.Next()
	}
}
