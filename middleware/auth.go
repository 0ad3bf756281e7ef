package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/auth"
	"github.com/junaidrashid-git/food-delivery-api/logger"
)

const userIDKey = "user_id"

// CurrentUser attaches the session user when one resolves. Requests
// without a usable session continue anonymously.
func CurrentUser(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.Resolve(c.Request)
		switch {
		case err == nil:
			c.Set(userIDKey, userID)
		case !errors.Is(err, auth.ErrNoCredentials) && !errors.Is(err, auth.ErrInvalidSession):
			logger.Log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Warn("session lookup failed")
		}
		c.Next()
	}
}

// RequireUser rejects the request unless a session user resolves.
func RequireUser(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.Resolve(c.Request)
		if err != nil {
			msg := "invalid session"
			if errors.Is(err, auth.ErrNoCredentials) {
				msg = "not authenticated"
			} else if !errors.Is(err, auth.ErrInvalidSession) {
				logger.Log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error("session lookup failed")
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the user attached by CurrentUser or RequireUser.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
