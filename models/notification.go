package models

import (
	"time"
)

const (
	NotificationTypeLike                 = "LIKE"
	NotificationTypeComment              = "COMMENT"
	NotificationTypeFollow               = "FOLLOW"
	NotificationTypeMonetizationApproved = "MONETIZATION_APPROVED"
	NotificationTypeMonetizationRejected = "MONETIZATION_REJECTED"
	NotificationTypeSystem               = "SYSTEM"
)

type Notification struct {
	ID         string    `json:"id" gorm:"primaryKey;size:191"`
	ReceiverID string    `json:"receiver_id" gorm:"not null;size:191;index"`
	SenderID   *string   `json:"sender_id" gorm:"size:191"`
	PostID     *string   `json:"post_id" gorm:"size:191"`
	Type       string    `json:"type" gorm:"not null;size:30"`
	Title      string    `json:"title" gorm:"size:255"`
	Message    string    `json:"message" gorm:"size:1000"`
	IsRead     bool      `json:"is_read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`

	Receiver User  `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
	HasMore       bool           `json:"has_more"`
}
