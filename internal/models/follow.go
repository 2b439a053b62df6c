package models

import "time"

// PostFollow is the same existence-toggle pattern as PostLike, but it
// moves no counter and raises no notification.
type PostFollow struct {
	ID        int       `gorm:"primaryKey" json:"followId"`
	PostID    int       `gorm:"uniqueIndex:idx_post_follows_pair;not null" json:"postId"`
	UserID    int       `gorm:"uniqueIndex:idx_post_follows_pair;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
