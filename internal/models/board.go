package models

import "time"

type Board struct {
	ID        int    `gorm:"primaryKey" json:"boardId"`
	Name      string `gorm:"unique;not null" json:"boardName"`
	IsPrivate bool   `gorm:"default:false" json:"isPrivate"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`

	// Cache of count(posts where board_id = id and not deleted).
	PostsCount int `gorm:"default:0" json:"postsCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BoardModerator grants post permission on a private board.
type BoardModerator struct {
	ID      int `gorm:"primaryKey" json:"id"`
	BoardID int `gorm:"uniqueIndex:idx_board_moderator;not null" json:"boardId"`
	UserID  int `gorm:"uniqueIndex:idx_board_moderator;not null" json:"userId"`
}
