package models

import "time"

type Plan struct {
	ID        int       `gorm:"primaryKey" json:"planId"`
	Name      string    `gorm:"not null" json:"planName"`
	CreatedAt time.Time `json:"createdAt"`
}

type PlanVideo struct {
	ID      int `gorm:"primaryKey" json:"id"`
	PlanID  int `gorm:"index;not null" json:"planId"`
	VideoID int `gorm:"not null" json:"videoId"`
}

type UserPlan struct {
	ID     int `gorm:"primaryKey" json:"id"`
	UserID int `gorm:"uniqueIndex:idx_user_plans_pair;not null" json:"userId"`
	PlanID int `gorm:"uniqueIndex:idx_user_plans_pair;not null" json:"planId"`
}

type Video struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Type        string `gorm:"index" json:"type"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Level       string `json:"level"`
}

type VideoLike struct {
	ID      int `gorm:"primaryKey" json:"id"`
	UserID  int `gorm:"uniqueIndex:idx_video_likes_pair;not null" json:"userId"`
	VideoID int `gorm:"uniqueIndex:idx_video_likes_pair;not null" json:"videoId"`
}
