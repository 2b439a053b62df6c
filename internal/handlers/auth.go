package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/models"
	"github.com/fitboard/backend/internal/token"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *token.Manager
}

func NewAuthHandler(db *gorm.DB, tokens *token.Manager) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register creates a new account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		UserName  string `json:"userName" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Phone     string `json:"phone"`
		UserPw    string `json:"userPw" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Username, first name, last name, email and password are required.")
		return
	}
	if !emailPattern.MatchString(input.Email) {
		common.Error(c, http.StatusBadRequest, "Invalid email format.")
		return
	}

	var existing models.User
	err := h.db.Where("email = ? OR user_name = ?", input.Email, input.UserName).First(&existing).Error
	if err == nil {
		if existing.Email == input.Email {
			common.Error(c, http.StatusConflict, "Email already registered.")
		} else {
			common.Error(c, http.StatusConflict, "Username already taken.")
		}
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		common.Fail(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.UserPw), bcrypt.DefaultCost)
	if err != nil {
		common.Fail(c, err)
		return
	}

	user := models.User{
		UserName:   input.UserName,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   string(hashed),
		Role:       "user",
		Visibility: "public",
		IsActive:   true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		// Concurrent registration with the same email or username loses the
		// race at the unique index. Re-query to report which one, matching
		// the pre-check messages.
		if common.IsUniqueViolation(err) {
			var emailTaken int64
			if err := h.db.Model(&models.User{}).Where("email = ?", input.Email).
				Count(&emailTaken).Error; err != nil {
				common.Fail(c, err)
				return
			}
			if emailTaken > 0 {
				common.Error(c, http.StatusConflict, "Email already registered.")
			} else {
				common.Error(c, http.StatusConflict, "Username already taken.")
			}
			return
		}
		common.Fail(c, err)
		return
	}

	tokenString, err := h.tokens.Sign(&user)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   tokenString,
		"user": gin.H{
			"userId":     user.ID,
			"userName":   user.UserName,
			"firstName":  user.FirstName,
			"email":      user.Email,
			"role":       user.Role,
			"visibility": user.Visibility,
		},
	})
}

// Login authenticates by email and password against active accounts only.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email  string `json:"email" binding:"required"`
		UserPw string `json:"userPw" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	var user models.User
	if err := h.db.Where("email = ? AND is_active = ?", input.Email, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		common.Fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.UserPw)); err != nil {
		common.Error(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	now := time.Now().UTC()
	if err := h.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		common.Fail(c, err)
		return
	}

	tokenString, err := h.tokens.Sign(&user)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tokenString,
		"user": gin.H{
			"userId":     user.ID,
			"userName":   user.UserName,
			"firstName":  user.FirstName,
			"email":      user.Email,
			"role":       user.Role,
			"visibility": user.Visibility,
		},
	})
}
