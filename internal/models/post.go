package models

import "time"

type Post struct {
	ID      int `gorm:"primaryKey" json:"postId"`
	BoardID int `gorm:"index;not null" json:"boardId"` // immutable after creation
	UserID  int `gorm:"index;not null" json:"userId"`

	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"not null" json:"content"`
	Type       string `gorm:"default:text" json:"type"`
	Visibility string `gorm:"default:public" json:"visibility"`
	Status     string `gorm:"default:published" json:"status"`

	// Soft delete: the row stays, every read path filters it out.
	IsDeleted bool `gorm:"default:false" json:"-"`

	ViewCount    int `gorm:"default:0" json:"viewCount"`
	LikeCount    int `gorm:"default:0" json:"likeCount"`
	CommentCount int `gorm:"default:0" json:"commentCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
}

// PostImage is an ordered child of Post, fully replaced on edit.
type PostImage struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	PostID    int    `gorm:"index;not null" json:"postId"`
	ImageURL  string `gorm:"not null" json:"imageUrl"`
	SortOrder int    `gorm:"not null" json:"sortOrder"`
}
