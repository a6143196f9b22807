package models

import (
	"time"
)

// Monetization lifecycle states for a user account.
const (
	MonetizationNotEligible = "NOT_ELIGIBLE"
	MonetizationEligible    = "ELIGIBLE"
	MonetizationRequested   = "REQUESTED"
	MonetizationApproved    = "APPROVED"
	MonetizationRejected    = "REJECTED"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                      string     `json:"id" gorm:"primaryKey;size:191"`
	Email                   string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username                string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password                string     `json:"-" gorm:"not null;size:255"`
	FirstName               string     `json:"first_name" gorm:"size:100"`
	LastName                string     `json:"last_name" gorm:"size:100"`
	Bio                     string     `json:"bio" gorm:"size:500"`
	Avatar                  *string    `json:"avatar" gorm:"size:500"`
	Verified                bool       `json:"verified" gorm:"default:false"`
	Role                    string     `json:"role" gorm:"default:'user';size:20"`
	IsActive                bool       `json:"is_active" gorm:"default:true"`
	MonetizationStatus      string     `json:"monetization_status" gorm:"default:'NOT_ELIGIBLE';size:20"`
	MonetizationRequestedAt *time.Time `json:"monetization_requested_at"`
	MonetizationApprovedAt  *time.Time `json:"monetization_approved_at"`
	FollowersCount          int        `json:"followers_count" gorm:"default:0"`
	FollowingCount          int        `json:"following_count" gorm:"default:0"`
	PostsCount              int        `json:"posts_count" gorm:"default:0"`
	LastActive              time.Time  `json:"last_active"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	Posts   []Post  `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
	Stories []Story `json:"stories,omitempty" gorm:"foreignKey:AuthorID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;index"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;index"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Following User `json:"following,omitempty" gorm:"foreignKey:FollowingID"`
}

// UserWithRelation carries the viewer-specific follow flags on a profile view.
type UserWithRelation struct {
	User
	IsFollowing  bool `json:"is_following"`
	IsFollowedBy bool `json:"is_followed_by"`
}

type UsersResponse struct {
	Users   []User `json:"users"`
	Total   int64  `json:"total"`
	HasMore bool   `json:"has_more"`
}
