// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware in this package.
const (
	userIDKey    = "userID"
	roleKey      = "role"
	requestIDKey = "requestID"
	loggerKey    = "logger"
)

// abort stops the chain with the JSON error shape every handler uses.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "success": false})
}
