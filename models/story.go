package models

import (
	"time"
)

// Story is a time-bounded post variant. Expired stories are invisible to all
// reads and removed by the periodic cleanup job.
type Story struct {
	ID         string      `json:"id" gorm:"primaryKey;size:191"`
	AuthorID   string      `json:"author_id" gorm:"not null;size:191;index"`
	MediaUrl   string      `json:"media_url" gorm:"not null;size:500"`
	MediaType  string      `json:"media_type" gorm:"default:'IMAGE';size:20"`
	Caption    string      `json:"caption" gorm:"size:500"`
	Hashtags   StringSlice `json:"hashtags" gorm:"type:json"`
	ViewsCount int         `json:"views_count" gorm:"default:0"`
	ExpiresAt  time.Time   `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	Author User        `json:"author" gorm:"foreignKey:AuthorID"`
	Views  []StoryView `json:"views,omitempty" gorm:"foreignKey:StoryID"`
}

func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type StoryView struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   string    `json:"story_id" gorm:"not null;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	CreatedAt time.Time `json:"created_at"`

	Story Story `json:"story,omitempty" gorm:"foreignKey:StoryID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// StoryWithStatus is a story annotated with the viewer's view flag.
type StoryWithStatus struct {
	Story
	IsViewed bool `json:"is_viewed"`
}

type StoriesResponse struct {
	Stories []StoryWithStatus `json:"stories"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"has_more"`
}

// StoryViewer is one entry of the owner-only viewers listing.
type StoryViewer struct {
	User
	ViewedAt time.Time `json:"viewed_at"`
}
