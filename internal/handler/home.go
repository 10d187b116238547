package handler

import (
	"net/http"

	"patent-portal/internal/middleware"
	"patent-portal/internal/util"

	"github.com/gin-gonic/gin"
)

// Home renders the submission form for the logged-in user
// (RequireAuth redirects guests to /login before this runs).
func Home(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Patent Portal",
		"user":  user,
	})
}

// GetMe returns the current session identity (requires RequireAuth).
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"userId":     user.UserID,
			"name":       user.Name,
			"email":      user.Email,
			"userType":   user.UserType,
			"department": user.Department,
			"branch":     user.Branch,
		},
	})
}
