package models

import "time"

// PostLike encodes the liked state by its mere existence. The unique
// (post_id, user_id) index is what keeps concurrent toggles from ever
// producing two rows for the same pair.
type PostLike struct {
	ID        int       `gorm:"primaryKey" json:"likeId"`
	PostID    int       `gorm:"uniqueIndex:idx_post_likes_pair;not null" json:"postId"`
	UserID    int       `gorm:"uniqueIndex:idx_post_likes_pair;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
