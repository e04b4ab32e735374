package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/policy"
)

// CookieName is the session cookie set on login.
const CookieName = "token"

// Auth verifies the session token from the cookie, or from a Bearer header for
// non-browser clients, and stores the caller's id and role on the context.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" {
			abort(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		userID, role, err := tokens.Parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(userIDKey, userID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[Role(c)]; !ok {
			abort(c, http.StatusForbidden, "You are not allowed to access this resource.")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, 0 when Auth did not run.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}

// Actor is the caller as seen by the authorization policy.
func Actor(c *gin.Context) policy.Actor {
	return policy.Actor{ID: UserID(c), Role: Role(c)}
}
