package models

import "time"

type User struct {
	ID        int    `gorm:"primaryKey" json:"userId"`
	UserName  string `gorm:"unique;not null" json:"userName"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"unique;not null" json:"email"`
	Phone     string `json:"phone"`
	Password  string `gorm:"not null" json:"-"`

	Role            string `gorm:"default:user" json:"role"` // "user" or "admin"
	CanManageUsers  bool   `gorm:"default:false" json:"canManageUsers"`
	CanManageBoards bool   `gorm:"default:false" json:"canManageBoards"`
	CanManagePosts  bool   `gorm:"default:false" json:"canManagePosts"`
	CanBanUsers     bool   `gorm:"default:false" json:"canBanUsers"`

	Visibility    string `gorm:"default:public" json:"visibility"`
	AvatarURL     string `json:"avatarUrl"`
	BackgroundURL string `json:"backgroundUrl"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`

	// Denormalized caches of related-table cardinalities, updated in the
	// same transaction as the rows they count.
	FollowersCount int `gorm:"default:0" json:"followersCount"`
	FollowingCount int `gorm:"default:0" json:"followingCount"`
	PostsCount     int `gorm:"default:0" json:"postsCount"`

	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Permissions is the coarse permission record carried in session tokens.
type Permissions struct {
	CanManageUsers  bool `json:"canManageUsers"`
	CanManageBoards bool `json:"canManageBoards"`
	CanManagePosts  bool `json:"canManagePosts"`
	CanBanUsers     bool `json:"canBanUsers"`
}

func (u *User) Permissions() Permissions {
	return Permissions{
		CanManageUsers:  u.CanManageUsers,
		CanManageBoards: u.CanManageBoards,
		CanManagePosts:  u.CanManagePosts,
		CanBanUsers:     u.CanBanUsers,
	}
}
