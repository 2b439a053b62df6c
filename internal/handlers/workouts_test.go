package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/models"
	"github.com/fitboard/backend/internal/token"
)

type WorkoutAPISuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	tokens *token.Manager

	user *models.User
}

func TestWorkoutAPISuite(t *testing.T) {
	suite.Run(t, new(WorkoutAPISuite))
}

func (s *WorkoutAPISuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.router, s.tokens = newTestRouter(s.db)
	s.user = seedUser(s.T(), s.db, "nina", "nina@example.com", "user")
}

func (s *WorkoutAPISuite) seedVideo(title, videoType, level string) *models.Video {
	video := &models.Video{
		Title: title, Type: videoType, Level: level,
		Duration: 300, URL: "https://videos/" + title,
	}
	s.Require().NoError(s.db.Create(video).Error)
	return video
}

func (s *WorkoutAPISuite) TestCreatePlanLinksMatchingVideos() {
	s.seedVideo("squats", "strength", "beginner")
	s.seedVideo("deadlifts", "Strength", "Beginner") // case-insensitive match
	s.seedVideo("sprints", "cardio", "beginner")

	w, resp := doJSON(s.T(), s.router, http.MethodPost, "/api/createPlan",
		bearerFor(s.T(), s.tokens, s.user),
		gin.H{"name": "starter strength", "type": "STRENGTH", "level": "beginner"})
	s.Equal(http.StatusCreated, w.Code)
	planID := int(resp["planId"].(float64))

	var linked int64
	s.Require().NoError(s.db.Model(&models.PlanVideo{}).Where("plan_id = ?", planID).Count(&linked).Error)
	s.Equal(int64(2), linked)

	var assigned int64
	s.Require().NoError(s.db.Model(&models.UserPlan{}).
		Where("user_id = ? AND plan_id = ?", s.user.ID, planID).Count(&assigned).Error)
	s.Equal(int64(1), assigned)
}

func (s *WorkoutAPISuite) TestCreatePlanNoVideosRollsBack() {
	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/createPlan",
		bearerFor(s.T(), s.tokens, s.user),
		gin.H{"name": "empty", "type": "yoga", "level": "expert"})
	s.Equal(http.StatusNotFound, w.Code)

	// The plan row itself must not survive the failed transaction.
	var plans int64
	s.Require().NoError(s.db.Model(&models.Plan{}).Count(&plans).Error)
	s.Zero(plans)
	var userPlans int64
	s.Require().NoError(s.db.Model(&models.UserPlan{}).Count(&userPlans).Error)
	s.Zero(userPlans)
}

func (s *WorkoutAPISuite) TestCreatePlanValidation() {
	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/createPlan",
		bearerFor(s.T(), s.tokens, s.user), gin.H{"name": "incomplete"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WorkoutAPISuite) TestAssignPlan() {
	plan := &models.Plan{Name: "shared plan"}
	s.Require().NoError(s.db.Create(plan).Error)
	bearer := bearerFor(s.T(), s.tokens, s.user)

	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/assignPlan", bearer, gin.H{"planId": 0})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/assignPlan", bearer, gin.H{"planId": 9999})
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/assignPlan", bearer, gin.H{"planId": plan.ID})
	s.Equal(http.StatusCreated, w.Code)

	w, resp := doJSON(s.T(), s.router, http.MethodPost, "/api/assignPlan", bearer, gin.H{"planId": plan.ID})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("This plan is already assigned to the user.", resp["message"])
}

func (s *WorkoutAPISuite) TestGetUserPlans() {
	bearer := bearerFor(s.T(), s.tokens, s.user)

	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/user/plans", bearer, gin.H{})
	s.Equal(http.StatusNotFound, w.Code)

	plan := &models.Plan{Name: "mine"}
	s.Require().NoError(s.db.Create(plan).Error)
	s.Require().NoError(s.db.Create(&models.UserPlan{UserID: s.user.ID, PlanID: plan.ID}).Error)

	other := seedUser(s.T(), s.db, "omar", "omar@example.com", "user")
	otherPlan := &models.Plan{Name: "not mine"}
	s.Require().NoError(s.db.Create(otherPlan).Error)
	s.Require().NoError(s.db.Create(&models.UserPlan{UserID: other.ID, PlanID: otherPlan.ID}).Error)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/plans", nil)
	req.Header.Set("Authorization", bearer)
	s.router.ServeHTTP(w2, req)
	s.Equal(http.StatusOK, w2.Code)

	var plans []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w2.Body.Bytes(), &plans))
	s.Require().Len(plans, 1)
	s.Equal("mine", plans[0]["planName"])
}

func (s *WorkoutAPISuite) TestGetPlanVideos() {
	video := s.seedVideo("rows", "strength", "beginner")
	plan := &models.Plan{Name: "rowing"}
	s.Require().NoError(s.db.Create(plan).Error)
	s.Require().NoError(s.db.Create(&models.PlanVideo{PlanID: plan.ID, VideoID: video.ID}).Error)

	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/plan/videos", "", gin.H{"planId": 9999})
	s.Equal(http.StatusNotFound, w.Code)

	empty := &models.Plan{Name: "empty"}
	s.Require().NoError(s.db.Create(empty).Error)
	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/plan/videos", "", gin.H{"planId": empty.ID})
	s.Equal(http.StatusNotFound, w.Code)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan/videos",
		jsonBody(s.T(), gin.H{"planId": plan.ID}))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w2, req)
	s.Equal(http.StatusOK, w2.Code)

	var videos []models.Video
	s.Require().NoError(json.Unmarshal(w2.Body.Bytes(), &videos))
	s.Require().Len(videos, 1)
	s.Equal("rows", videos[0].Title)
}

func (s *WorkoutAPISuite) TestGetVideosFilterAndPaging() {
	for i := 0; i < 3; i++ {
		s.seedVideo(fmt.Sprintf("cardio %d", i), "cardio", "beginner")
	}
	s.seedVideo("bench", "strength", "beginner")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos?type=cardio&limit=2", nil)
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	var videos []models.Video
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &videos))
	s.Len(videos, 2)
	for _, v := range videos {
		s.Equal("cardio", v.Type)
	}

	w2, _ := doJSON(s.T(), s.router, http.MethodGet, "/api/videos?type=swimming", "", nil)
	s.Equal(http.StatusNotFound, w2.Code)
}

func (s *WorkoutAPISuite) TestVideoLikeLifecycle() {
	video := s.seedVideo("plank", "core", "beginner")
	body := gin.H{"userId": s.user.ID, "videoId": video.ID}

	w, _ := doJSON(s.T(), s.router, http.MethodPost, "/api/videos/like", "", gin.H{"userId": s.user.ID})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/videos/like", "", body)
	s.Equal(http.StatusCreated, w.Code)

	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/videos/like", "", body)
	s.Equal(http.StatusConflict, w.Code)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/videos/liked?userId=%d", s.user.ID), nil)
	s.router.ServeHTTP(w2, req)
	s.Equal(http.StatusOK, w2.Code)
	var liked []models.Video
	s.Require().NoError(json.Unmarshal(w2.Body.Bytes(), &liked))
	s.Require().Len(liked, 1)
	s.Equal("plank", liked[0].Title)

	w, _ = doJSON(s.T(), s.router, http.MethodPost, "/api/videos/unlike", "", body)
	s.Equal(http.StatusOK, w.Code)

	w, resp := doJSON(s.T(), s.router, http.MethodPost, "/api/videos/unlike", "", body)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("No like record found to delete.", resp["message"])
}

func (s *WorkoutAPISuite) TestGetLikedVideosRequiresUserID() {
	w, _ := doJSON(s.T(), s.router, http.MethodGet, "/api/videos/liked", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}
