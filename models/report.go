package models

import (
	"time"
)

const (
	ReportStatusPending   = "PENDING"
	ReportStatusResolved  = "RESOLVED"
	ReportStatusDismissed = "DISMISSED"
)

// Report is a moderation item filed against a user or a post.
type Report struct {
	ID           string     `json:"id" gorm:"primaryKey;size:191"`
	ReporterID   string     `json:"reporter_id" gorm:"not null;size:191"`
	TargetUserID *string    `json:"target_user_id" gorm:"size:191"`
	TargetPostID *string    `json:"target_post_id" gorm:"size:191"`
	Reason       string     `json:"reason" gorm:"not null;size:500"`
	Status       string     `json:"status" gorm:"default:'PENDING';size:20;index"`
	Resolution   string     `json:"resolution" gorm:"size:500"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	CreatedAt    time.Time  `json:"created_at"`

	Reporter   User  `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	TargetUser *User `json:"target_user,omitempty" gorm:"foreignKey:TargetUserID"`
	TargetPost *Post `json:"target_post,omitempty" gorm:"foreignKey:TargetPostID"`
}
