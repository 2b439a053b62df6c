package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fitboard/backend/internal/middleware"
	"github.com/fitboard/backend/internal/models"
	"github.com/fitboard/backend/internal/token"
)

const testSecret = "test-secret"

// newTestDB opens an isolated in-memory SQLite database and migrates the
// full schema. The database name is derived from the test name so parallel
// tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardModerator{},
		&models.Post{},
		&models.PostImage{},
		&models.PostLike{},
		&models.PostFollow{},
		&models.Notification{},
		&models.Plan{},
		&models.PlanVideo{},
		&models.UserPlan{},
		&models.Video{},
		&models.VideoLike{},
	))
	return db
}

// newTestRouter mirrors the production route table for the endpoints under
// test.
func newTestRouter(db *gorm.DB) (*gin.Engine, *token.Manager) {
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager(testSecret)
	handler := New(db, tokens)

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", handler.Auth.Register)
	api.POST("/auth/login", handler.Auth.Login)
	api.GET("/posts", handler.Post.GetPosts)
	api.GET("/posts/search", handler.Post.SearchPosts)
	api.GET("/posts/:postId", handler.Post.GetPost)
	api.GET("/boards", handler.Board.GetBoards)
	api.GET("/videos", handler.Workout.GetVideos)
	api.GET("/videos/liked", handler.Workout.GetLikedVideos)
	api.POST("/videos/like", handler.Workout.LikeVideo)
	api.POST("/videos/unlike", handler.Workout.UnlikeVideo)
	api.POST("/plan/videos", handler.Workout.GetPlanVideos)

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))
	protected.POST("/posts", handler.Post.CreatePost)
	protected.PUT("/posts/:postId", handler.Post.UpdatePost)
	protected.DELETE("/posts/:postId", handler.Post.DeletePost)
	protected.POST("/posts/:postId/toggle-like", handler.Post.ToggleLike)
	protected.POST("/posts/:postId/toggle-follow", handler.Post.ToggleFollow)
	protected.GET("/users/profile", handler.User.GetProfile)
	protected.PUT("/users/profile", handler.User.UpdateProfile)
	protected.GET("/user/profile", handler.User.GetFullProfile)
	protected.POST("/user/update-password", handler.User.UpdatePassword)
	protected.POST("/createPlan", handler.Workout.CreatePlan)
	protected.POST("/assignPlan", handler.Workout.AssignPlan)
	protected.POST("/user/plans", handler.Workout.GetUserPlans)

	return r, tokens
}

func seedUser(t *testing.T, db *gorm.DB, userName, email, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		UserName:   userName,
		FirstName:  "Test",
		LastName:   "User",
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		Visibility: "public",
		IsActive:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBoard(t *testing.T, db *gorm.DB, name string, private bool) *models.Board {
	t.Helper()

	board := &models.Board{Name: name, IsPrivate: private, IsActive: true}
	require.NoError(t, db.Create(board).Error)
	return board
}

func bearerFor(t *testing.T, tokens *token.Manager, user *models.User) string {
	t.Helper()

	signed, err := tokens.Sign(user)
	require.NoError(t, err)
	return "Bearer " + signed
}

// jsonBody marshals a value into a request body reader.
func jsonBody(t *testing.T, body interface{}) *bytes.Reader {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// doJSON performs a JSON request against the router and decodes the JSON
// response body into a map.
func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}
