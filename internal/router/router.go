package router

import (
	"net/http"

	"patent-portal/internal/config"
	"patent-portal/internal/handler"
	"patent-portal/internal/middleware"
	"patent-portal/internal/relay"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, templates and route table.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLog(log), gin.Recovery())

	if cfg.Server.MaxUploadMB > 0 {
		r.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	}

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	jwtSecret := cfg.Auth.JWTSecret

	authHandler := handler.NewAuthHandler(db, cfg.Auth, log)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/signup", authHandler.SignupPage)
	r.POST("/signup", authHandler.Signup)
	r.GET("/logout", authHandler.Logout)

	// home requires a session; guests are sent to the login page
	r.GET("/", middleware.RequireAuth(jwtSecret, db), handler.Home)
	r.GET("/me", middleware.RequireAuth(jwtSecret, db), handler.GetMe)

	relayClient := relay.New(cfg.Relay, log, nil)
	appHandler := handler.NewApplicationHandler(db, cfg.Upload, relayClient, log)
	// submit accepts guest submissions: the session is optional and a
	// missing one degrades to the placeholder identity
	r.POST("/submit", middleware.OptionalAuth(jwtSecret, db), appHandler.Submit)

	statusHandler := handler.NewStatusHandler(db, log)
	r.GET("/stats", statusHandler.Stats)
	r.POST("/update-status", middleware.RequireAuth(jwtSecret, db), statusHandler.UpdateStatus)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	return r
}
