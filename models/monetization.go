package models

import (
	"time"
)

const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// MonetizationRequest captures the counters at request time so the admin
// reviews the numbers the user actually qualified with.
type MonetizationRequest struct {
	ID             string     `json:"id" gorm:"primaryKey;size:191"`
	UserID         string     `json:"user_id" gorm:"not null;size:191;index"`
	FollowersCount int        `json:"followers_count" gorm:"default:0"`
	ViewsCount     int64      `json:"views_count" gorm:"default:0"`
	Status         string     `json:"status" gorm:"default:'PENDING';size:20"`
	Reason         string     `json:"reason" gorm:"size:500"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AdRevenue struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	UserID      string    `json:"user_id" gorm:"not null;size:191;index"`
	Period      string    `json:"period" gorm:"not null;size:7"` // YYYY-MM
	Amount      float64   `json:"amount" gorm:"default:0"`
	Impressions int       `json:"impressions" gorm:"default:0"`
	Clicks      int       `json:"clicks" gorm:"default:0"`
	CPM         float64   `json:"cpm" gorm:"default:0"`
	CTR         float64   `json:"ctr" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// EligibilityResult reports the monetization thresholds against a user's
// current counters.
type EligibilityResult struct {
	Eligible       bool  `json:"eligible"`
	FollowersCount int   `json:"followers_count"`
	ViewsCount     int64 `json:"views_count"`
	MinFollowers   int   `json:"min_followers"`
	MinViews       int64 `json:"min_views"`
	PeriodDays     int   `json:"period_days"`
	MinDuration    int   `json:"min_video_duration"`
}

type RevenueSummary struct {
	Revenues         []AdRevenue `json:"revenues"`
	TotalAmount      float64     `json:"total_amount"`
	TotalImpressions int         `json:"total_impressions"`
	TotalClicks      int         `json:"total_clicks"`
	AverageCTR       float64     `json:"average_ctr"`
}

type MonetizationRequestsResponse struct {
	Requests []MonetizationRequest `json:"requests"`
	Total    int64                 `json:"total"`
	HasMore  bool                  `json:"has_more"`
}
