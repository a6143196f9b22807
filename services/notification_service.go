package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/cache"
	"snaptika-api/errs"
	"snaptika-api/models"
)

const notificationsCacheTTL = 300 * time.Second

type NotificationService struct {
	db     *gorm.DB
	cache  *cache.Client
	logger *zap.Logger
}

func NewNotificationService(db *gorm.DB, cacheClient *cache.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		db:     db,
		cache:  cacheClient,
		logger: logger.Named("notifications"),
	}
}

// Notify persists a notification, fire-and-forget: a failure is logged and
// ignored so the triggering mutation never fails on delivery.
func (s *NotificationService) Notify(ctx context.Context, notification models.Notification) {
	if err := s.Create(ctx, notification); err != nil {
		s.logger.Warn("Failed to deliver notification",
			zap.String("receiverID", notification.ReceiverID),
			zap.String("type", notification.Type),
			zap.Error(err))
	}
}

func (s *NotificationService) Create(ctx context.Context, notification models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return err
	}
	if err := s.cache.InvalidateNotifications(ctx, notification.ReceiverID); err != nil {
		s.logger.Warn("Notification cache invalidation failed",
			zap.String("receiverID", notification.ReceiverID), zap.Error(err))
	}
	return nil
}

// FindAll returns a page of the user's notifications with the unread count.
// The first page is cached briefly; creates and reads invalidate it.
func (s *NotificationService) FindAll(ctx context.Context, userID string, skip, take int) (*models.NotificationsResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	// Only the first page is cached; its key is what Create invalidates.
	cacheKey := cache.NotificationsKey(userID)
	if skip == 0 {
		if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var response models.NotificationsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				// The snapshot may hold more than this request asked for.
				if take < len(response.Notifications) {
					response.Notifications = response.Notifications[:take]
					response.HasMore = true
				}
				return &response, nil
			}
		}
	}

	var total, unread int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, err
	}

	var notifications []models.Notification
	if err := s.db.WithContext(ctx).Preload("Sender").
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	for i := range notifications {
		if notifications[i].Sender != nil {
			notifications[i].Sender.Password = ""
		}
	}

	response := &models.NotificationsResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		HasMore:       int64(skip+take) < total,
	}

	if skip == 0 {
		if data, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), notificationsCacheTTL); err != nil {
				s.logger.Warn("Notification cache write failed", zap.String("userID", userID), zap.Error(err))
			}
		}
	}

	return response, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	var notification models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}

	if err := s.db.WithContext(ctx).Model(&notification).Update("is_read", true).Error; err != nil {
		return err
	}
	return s.cache.InvalidateNotifications(ctx, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	return s.cache.InvalidateNotifications(ctx, userID)
}
