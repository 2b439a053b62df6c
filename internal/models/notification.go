package models

import "time"

// Notification is append-only; rows are created as a side effect of like
// events and never updated or purged here.
type Notification struct {
	ID        int       `gorm:"primaryKey" json:"notificationId"`
	UserID    int       `gorm:"index;not null" json:"userId"` // recipient
	Type      string    `gorm:"not null" json:"type"`
	ActorID   int       `gorm:"not null" json:"actorId"`
	TargetID  int       `gorm:"not null" json:"targetId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

const NotificationLikePost = "like_post"
