package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/acme-invoices/config"
	"github.com/yourusername/acme-invoices/middleware"
	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgSomethingWrong     = "Something went wrong."
)

var credentialsSchema = validation.Schema{
	validation.NewField("email", validation.Email(msgInvalidCredentials)),
	validation.NewField("password", validation.MinLength(6, msgInvalidCredentials)),
}

type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *slog.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		DB:  db,
		Cfg: cfg,
		Log: log,
	}
}

// LoginPage tells the login form where to go after signing in.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"callback_url": callbackURL(c.Query("callbackUrl"))})
}

// Login checks email and password and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	in := validation.Input{"email": email, "password": password}
	if errs := credentialsSchema.Validate(in); errs != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
		return
	}

	var user models.User
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
		return
	}
	if err != nil {
		h.Log.ErrorContext(c.Request.Context(), "fetch user", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgSomethingWrong})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.Cfg.JWTSecret, h.Cfg.SessionTTL)
	if err != nil {
		h.Log.ErrorContext(c.Request.Context(), "generate session token", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgSomethingWrong})
		return
	}

	h.Log.InfoContext(c.Request.Context(), "user logged in", slog.String("user_id", user.ID))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cfg.SessionCookie, token, int(h.Cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, callbackURL(c.PostForm("callbackUrl")))
}

// Logout ends the session and returns to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cfg.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// callbackURL only honours local paths; anything else lands on the dashboard.
func callbackURL(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return middleware.HomePath
	}
	return raw
}
