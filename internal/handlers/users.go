package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/middleware"
	"github.com/fitboard/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetProfile returns the caller's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	ident := middleware.Identity(c)

	var user models.User
	if err := h.db.Where("id = ? AND is_active = ?", ident.UserID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profileView(&user)})
}

// GetFullProfile returns the profile including the permission flags.
func (h *UserHandler) GetFullProfile(c *gin.Context) {
	ident := middleware.Identity(c)

	var user models.User
	if err := h.db.Where("id = ? AND is_active = ?", ident.UserID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
			return
		}
		common.Fail(c, err)
		return
	}

	view := profileView(&user)
	view["canManageUsers"] = user.CanManageUsers
	view["canManageBoards"] = user.CanManageBoards
	view["canManagePosts"] = user.CanManagePosts
	view["canBanUsers"] = user.CanBanUsers
	view["isActive"] = user.IsActive

	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

// UpdateProfile updates the caller's profile. Absent fields keep their
// prior value; a changed email must not belong to another account.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ident := middleware.Identity(c)

	var input struct {
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Visibility *string `json:"visibility"`
		Bio        *string `json:"bio"`
		Location   *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if input.Email != nil {
		var taken int64
		if err := h.db.Model(&models.User{}).
			Where("email = ? AND id != ?", *input.Email, ident.UserID).
			Count(&taken).Error; err != nil {
			common.Fail(c, err)
			return
		}
		if taken > 0 {
			common.Error(c, http.StatusConflict, "Email already in use.")
			return
		}
	}

	updates := map[string]interface{}{}
	for column, value := range map[string]*string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"phone":      input.Phone,
		"visibility": input.Visibility,
		"bio":        input.Bio,
		"location":   input.Location,
	} {
		if value != nil {
			updates[column] = *value
		}
	}

	var user models.User
	if err := h.db.First(&user, ident.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		common.Fail(c, err)
		return
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			common.Fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"userId":     user.ID,
			"userName":   user.UserName,
			"firstName":  user.FirstName,
			"lastName":   user.LastName,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       user.Role,
			"visibility": user.Visibility,
			"bio":        user.Bio,
			"location":   user.Location,
		},
	})
}

// UpdatePassword changes the caller's password after verifying the current
// one.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	ident := middleware.Identity(c)

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All password fields are required."})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "New passwords do not match."})
		return
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_active = ?", ident.UserID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
			return
		}
		common.Fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Current password is incorrect."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		common.Fail(c, err)
		return
	}
	if err := h.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

func profileView(user *models.User) gin.H {
	return gin.H{
		"userId":         user.ID,
		"userName":       user.UserName,
		"firstName":      user.FirstName,
		"lastName":       user.LastName,
		"email":          user.Email,
		"phone":          user.Phone,
		"role":           user.Role,
		"visibility":     user.Visibility,
		"avatarUrl":      user.AvatarURL,
		"backgroundUrl":  user.BackgroundURL,
		"bio":            user.Bio,
		"location":       user.Location,
		"followersCount": user.FollowersCount,
		"followingCount": user.FollowingCount,
		"postsCount":     user.PostsCount,
		"createdAt":      user.CreatedAt,
	}
}
