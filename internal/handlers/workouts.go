package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/middleware"
	"github.com/fitboard/backend/internal/models"
)

type WorkoutHandler struct {
	db *gorm.DB
}

func NewWorkoutHandler(db *gorm.DB) *WorkoutHandler {
	return &WorkoutHandler{db: db}
}

// CreatePlan creates a plan, links every video matching the requested type
// and level (case-insensitive, capped at 100), and assigns the plan to the
// caller. All three steps commit together.
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	ident := middleware.Identity(c)

	var input struct {
		Name  string `json:"name" binding:"required"`
		Type  string `json:"type" binding:"required"`
		Level string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Name, type, and level are required.")
		return
	}

	var plan models.Plan
	err := h.db.Transaction(func(tx *gorm.DB) error {
		plan = models.Plan{Name: input.Name}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		var videos []models.Video
		if err := tx.Where("LOWER(type) = LOWER(?) AND LOWER(level) = LOWER(?)", input.Type, input.Level).
			Limit(100).Find(&videos).Error; err != nil {
			return err
		}
		if len(videos) == 0 {
			return common.ErrNotFound
		}

		planVideos := make([]models.PlanVideo, len(videos))
		for i, video := range videos {
			planVideos[i] = models.PlanVideo{PlanID: plan.ID, VideoID: video.ID}
		}
		if err := tx.Create(&planVideos).Error; err != nil {
			return err
		}

		return tx.Create(&models.UserPlan{UserID: ident.UserID, PlanID: plan.ID}).Error
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.Error(c, http.StatusNotFound, "No videos found for the selected type and level.")
			return
		}
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Plan created and assigned successfully!",
		"planId":  plan.ID,
	})
}

// AssignPlan links an existing plan to the caller.
func (h *WorkoutHandler) AssignPlan(c *gin.Context) {
	ident := middleware.Identity(c)

	var input struct {
		PlanID int `json:"planId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.PlanID <= 0 {
		common.Error(c, http.StatusBadRequest, "Valid Plan ID is required.")
		return
	}

	var plan models.Plan
	if err := h.db.First(&plan, input.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusNotFound, "Plan not found.")
			return
		}
		common.Fail(c, err)
		return
	}

	if err := h.db.Create(&models.UserPlan{UserID: ident.UserID, PlanID: plan.ID}).Error; err != nil {
		if common.IsUniqueViolation(err) {
			common.Error(c, http.StatusConflict, "This plan is already assigned to the user.")
			return
		}
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Plan assigned to user successfully!"})
}

// GetUserPlans lists the caller's assigned plans.
func (h *WorkoutHandler) GetUserPlans(c *gin.Context) {
	ident := middleware.Identity(c)

	var plans []models.Plan
	if err := h.db.Model(&models.Plan{}).
		Joins("INNER JOIN user_plans ON plans.id = user_plans.plan_id").
		Where("user_plans.user_id = ?", ident.UserID).
		Limit(100).Find(&plans).Error; err != nil {
		common.Fail(c, err)
		return
	}
	if len(plans) == 0 {
		common.Error(c, http.StatusNotFound, "No plans found for this user.")
		return
	}

	views := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		views = append(views, gin.H{"planId": plan.ID, "planName": plan.Name})
	}
	c.JSON(http.StatusOK, views)
}

// GetPlanVideos lists the videos linked to a plan.
func (h *WorkoutHandler) GetPlanVideos(c *gin.Context) {
	var input struct {
		PlanID int `json:"planId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.PlanID <= 0 {
		common.Error(c, http.StatusBadRequest, "Invalid Plan ID.")
		return
	}

	var plan models.Plan
	if err := h.db.First(&plan, input.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusNotFound, "Plan not found.")
			return
		}
		common.Fail(c, err)
		return
	}

	var videos []models.Video
	if err := h.db.Model(&models.Video{}).
		Joins("INNER JOIN plan_videos ON videos.id = plan_videos.video_id").
		Where("plan_videos.plan_id = ?", plan.ID).
		Find(&videos).Error; err != nil {
		common.Fail(c, err)
		return
	}
	if len(videos) == 0 {
		common.Error(c, http.StatusNotFound, "No videos found for this plan.")
		return
	}

	c.JSON(http.StatusOK, videos)
}

// GetVideos lists the video catalog with an optional type filter.
func (h *WorkoutHandler) GetVideos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := h.db.Model(&models.Video{})
	if videoType := c.Query("type"); videoType != "" {
		query = query.Where("type = ?", videoType)
	}

	var videos []models.Video
	if err := query.Limit(limit).Offset(offset).Find(&videos).Error; err != nil {
		common.Fail(c, err)
		return
	}
	if len(videos) == 0 {
		common.Error(c, http.StatusNotFound, "No videos found.")
		return
	}

	c.JSON(http.StatusOK, videos)
}

// LikeVideo records a like for (user, video).
func (h *WorkoutHandler) LikeVideo(c *gin.Context) {
	var input struct {
		UserID  int `json:"userId"`
		VideoID int `json:"videoId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == 0 || input.VideoID == 0 {
		common.Error(c, http.StatusBadRequest, "userId and videoId are required.")
		return
	}

	if err := h.db.Create(&models.VideoLike{UserID: input.UserID, VideoID: input.VideoID}).Error; err != nil {
		if common.IsUniqueViolation(err) {
			common.Error(c, http.StatusConflict, "Video already liked.")
			return
		}
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Video liked successfully."})
}

// UnlikeVideo removes a like for (user, video).
func (h *WorkoutHandler) UnlikeVideo(c *gin.Context) {
	var input struct {
		UserID  int `json:"userId"`
		VideoID int `json:"videoId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == 0 || input.VideoID == 0 {
		common.Error(c, http.StatusBadRequest, "userId and videoId are required.")
		return
	}

	res := h.db.Where("user_id = ? AND video_id = ?", input.UserID, input.VideoID).
		Delete(&models.VideoLike{})
	if res.Error != nil {
		common.Fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		common.Error(c, http.StatusNotFound, "No like record found to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video unliked successfully."})
}

// GetLikedVideos lists the videos a user has liked.
func (h *WorkoutHandler) GetLikedVideos(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		common.Error(c, http.StatusBadRequest, "userId is required.")
		return
	}

	var videos []models.Video
	if err := h.db.Model(&models.Video{}).
		Joins("INNER JOIN video_likes ON videos.id = video_likes.video_id").
		Where("video_likes.user_id = ?", userID).
		Find(&videos).Error; err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, videos)
}
