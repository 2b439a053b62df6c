package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fitboard/backend/internal/config"
	"github.com/fitboard/backend/internal/database"
	"github.com/fitboard/backend/internal/handlers"
	"github.com/fitboard/backend/internal/middleware"
	"github.com/fitboard/backend/internal/token"
)

type Server struct {
	cfg     *config.Config
	db      *database.Database
	handler *handlers.Handler
	tokens  *token.Manager
}

// New wires the database, token manager and handlers together.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	tokens := token.NewManager(cfg.JWTSecret)
	handler := handlers.New(db.DB, tokens)

	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
		tokens:  tokens,
	}, nil
}

// DB exposes the database handle for shutdown.
func (s *Server) DB() *database.Database {
	return s.db
}

// HTTPServer builds the configured http.Server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes.
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/search", s.handler.Post.SearchPosts)
		api.GET("/posts/:postId", s.handler.Post.GetPost)

		// Board routes
		api.GET("/boards", s.handler.Board.GetBoards)

		// Video catalog (public)
		api.GET("/videos", s.handler.Workout.GetVideos)
		api.GET("/videos/liked", s.handler.Workout.GetLikedVideos)
		api.POST("/videos/like", s.handler.Workout.LikeVideo)
		api.POST("/videos/unlike", s.handler.Workout.UnlikeVideo)
		api.POST("/plan/videos", s.handler.Workout.GetPlanVideos)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Auth(s.tokens))
		{
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:postId", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:postId", s.handler.Post.DeletePost)
			protected.POST("/posts/:postId/toggle-like", s.handler.Post.ToggleLike)
			protected.POST("/posts/:postId/toggle-follow", s.handler.Post.ToggleFollow)

			protected.GET("/users/profile", s.handler.User.GetProfile)
			protected.PUT("/users/profile", s.handler.User.UpdateProfile)
			protected.GET("/user/profile", s.handler.User.GetFullProfile)
			protected.POST("/user/update-password", s.handler.User.UpdatePassword)

			protected.POST("/createPlan", s.handler.Workout.CreatePlan)
			protected.POST("/assignPlan", s.handler.Workout.AssignPlan)
			protected.POST("/user/plans", s.handler.Workout.GetUserPlans)
		}
	}

	return r
}
