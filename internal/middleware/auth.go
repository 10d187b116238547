package middleware

import (
	"net/http"
	"strings"
	"time"

	"patent-portal/internal/models"
	"patent-portal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenCookie is the session cookie set on login.
const TokenCookie = "pp_token"

const currentUserKey = "currentUser"

// CurrentUser returns the authenticated user set by the auth middleware,
// or nil for a guest request.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// resolveUser finds and validates the session token, then loads the
// active user row. Token sources, in order: Authorization header, query
// parameter, cookie.
func resolveUser(c *gin.Context, jwtSecret string, db *gorm.DB) *models.User {
	var tokenStr string

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		if cookie, err := c.Cookie(TokenCookie); err == nil {
			tokenStr = cookie
		}
	}

	if tokenStr == "" {
		return nil
	}

	claims, err := util.ParseToken(jwtSecret, tokenStr)
	if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil
	}

	var user models.User
	if err := db.Where("user_id = ? AND is_active = ?", claims.UserID, true).
		First(&user).Error; err != nil {
		return nil
	}
	return &user
}

// wantsJSON reports whether the client expects a structured error
// instead of a login redirect.
func wantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	if strings.Contains(c.ContentType(), "application/json") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireAuth guards an endpoint: without a valid session the request is
// answered with a 401 envelope (JSON clients) or a login redirect
// (interactive clients) and never reaches the handler.
func RequireAuth(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, jwtSecret, db)
		if user == nil {
			if wantsJSON(c) {
				util.ErrorWith(c, http.StatusUnauthorized, "Authentication required",
					util.Response{"redirect": "/login"})
			} else {
				c.Redirect(http.StatusFound, "/login")
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the session when present but lets guest
// requests through. The submission endpoint uses it: a missing or stale
// token degrades to a guest submission instead of a rejection.
func OptionalAuth(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, jwtSecret, db); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}
