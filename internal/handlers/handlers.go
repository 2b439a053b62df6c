package handlers

import (
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/token"
)

// Handler combines all handler types.
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Post    *PostHandler
	Board   *BoardHandler
	Workout *WorkoutHandler
}

// New creates a unified handler with all sub-handlers.
func New(db *gorm.DB, tokens *token.Manager) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db, tokens),
		User:    NewUserHandler(db),
		Post:    NewPostHandler(db),
		Board:   NewBoardHandler(db),
		Workout: NewWorkoutHandler(db),
	}
}
