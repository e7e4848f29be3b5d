package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
)

// SessionCookieName is the cookie the frontend stores the session token in
// when it does not use the Authorization header.
const SessionCookieName = "pb_session"

// SessionGuard authenticates the request via a bearer token or session cookie
// and injects the session identity into the gin context. Requests with a
// missing or stale session get 401 plus a login redirect hint so the client
// can route the user back to the login page.
func SessionGuard(sessionUC domain.SessionUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Try to get token from Header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie(SessionCookieName)
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or session cookie required", gin.H{"redirect": "/login"})
			c.Abort()
			return
		}

		session, err := sessionUC.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Session expired, please log in again", gin.H{"redirect": "/login"})
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), session.UserID)
		c.Set(string(domain.KeyProfileID), session.ProfileID)
		c.Set(string(domain.KeyUserEmail), session.Email)

		c.Next()
	}
}
