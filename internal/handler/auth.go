package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"patent-portal/internal/config"
	"patent-portal/internal/httperr"
	"patent-portal/internal/middleware"
	"patent-portal/internal/models"
	"patent-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg config.AuthConfig
	Log *logrus.Logger
}

func NewAuthHandler(db *gorm.DB, cfg config.AuthConfig, log *logrus.Logger) *AuthHandler {
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 24
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{DB: db, Cfg: cfg, Log: log}
}

// ---------- pages ----------

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Patent Portal - Login"})
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"title": "Patent Portal - Sign Up"})
}

// ---------- signup ----------

const minPasswordLen = 6

// newUserID builds a textual user identifier embedding the signup date
// and a random suffix, e.g. UIC-USER-20250115-A1B2C3.
func newUserID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("UIC-USER-%s-%s", now.Format("20060102"), suffix)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")
	userType := strings.TrimSpace(c.PostForm("user_type"))

	if herr := validateSignup(name, email, password, confirm, userType); herr != nil {
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to check email")
		return
	}
	if count > 0 {
		herr := httperr.Conflict("Email already registered")
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cfg.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:           newUserID(now),
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		UserType:         userType,
		Department:       strings.TrimSpace(c.PostForm("department")),
		Branch:           strings.TrimSpace(c.PostForm("branch")),
		Contact:          strings.TrimSpace(c.PostForm("contact")),
		RegistrationDate: now,
		IsActive:         true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.Log.WithFields(logrus.Fields{"user_id": user.UserID, "email": email}).Info("user registered")

	util.Success(c, util.Response{
		"message":  "Registration successful! Please login.",
		"redirect": "/login",
		"userId":   user.UserID,
	})
}

func validateSignup(name, email, password, confirm, userType string) *httperr.Error {
	var missing []string
	for _, f := range []struct{ key, val string }{
		{"name", name},
		{"email", email},
		{"password", password},
		{"confirm_password", confirm},
		{"user_type", userType},
	} {
		if f.val == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return httperr.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	if err := util.ValidateEmail(email); err != nil {
		return httperr.Validation("Invalid email address")
	}
	if password != confirm {
		return httperr.Validation("Passwords do not match")
	}
	if len(password) < minPasswordLen {
		return httperr.Validation("Password must be at least 6 characters")
	}
	return nil
}

// ---------- login ----------

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if email == "" || password == "" {
		util.Error(c, http.StatusBadRequest, "Please fill all fields")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ? AND is_active = ?", email, true).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			herr := httperr.Auth("Invalid email or password")
			util.Error(c, herr.Status(), herr.Message)
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to query user")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		herr := httperr.Auth("Invalid email or password")
		util.Error(c, herr.Status(), herr.Message)
		return
	}

	ttl := time.Duration(h.Cfg.TokenTTLHours) * time.Hour
	token, err := util.GenerateToken(h.Cfg.JWTSecret, user.UserID, user.Name, user.UserType, ttl)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(ttl.Seconds()), "/", "", false, true)

	h.Log.WithField("user_id", user.UserID).Info("user logged in")

	util.Success(c, util.Response{
		"message":  fmt.Sprintf("Welcome back, %s!", user.Name),
		"redirect": "/",
		"token":    token,
		"user": gin.H{
			"userId":   user.UserID,
			"name":     user.Name,
			"userType": user.UserType,
		},
	})
}

// ---------- logout ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
