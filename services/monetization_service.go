package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/config"
	"snaptika-api/errs"
	"snaptika-api/models"
)

// MonetizationService implements the creator revenue program: eligibility
// thresholds, the request/review flow, and the mock revenue generation the
// monthly job runs.
type MonetizationService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
	logger        *zap.Logger
}

func NewMonetizationService(db *gorm.DB, cfg *config.Config, notifications *NotificationService, logger *zap.Logger) *MonetizationService {
	return &MonetizationService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
		logger:        logger.Named("monetization"),
	}
}

// CheckEligibility evaluates the follower and qualified-view thresholds for a
// user. Qualified views are views of videos of at least the configured
// duration within the trailing period.
func (s *MonetizationService) CheckEligibility(ctx context.Context, userID string) (*models.EligibilityResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	viewsCount, err := countRecentVideoViews(ctx, s.db, userID, s.cfg.PeriodDays, s.cfg.MinVideoDuration)
	if err != nil {
		return nil, err
	}

	return &models.EligibilityResult{
		Eligible:       user.FollowersCount >= s.cfg.MinFollowers && viewsCount >= s.cfg.MinViews,
		FollowersCount: user.FollowersCount,
		ViewsCount:     viewsCount,
		MinFollowers:   s.cfg.MinFollowers,
		MinViews:       s.cfg.MinViews,
		PeriodDays:     s.cfg.PeriodDays,
		MinDuration:    s.cfg.MinVideoDuration,
	}, nil
}

func (s *MonetizationService) RequestMonetization(ctx context.Context, userID string) (*models.MonetizationRequest, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	if user.MonetizationStatus == models.MonetizationApproved {
		return nil, errs.ErrConflict
	}
	if user.MonetizationStatus == models.MonetizationRequested {
		return nil, errs.ErrConflict
	}

	eligibility, err := s.CheckEligibility(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, errs.ErrForbidden
	}

	request := models.MonetizationRequest{
		ID:             uuid.New().String(),
		UserID:         userID,
		FollowersCount: eligibility.FollowersCount,
		ViewsCount:     eligibility.ViewsCount,
		Status:         models.RequestStatusPending,
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"monetization_status":       models.MonetizationRequested,
			"monetization_requested_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *MonetizationService) GetRequests(ctx context.Context, skip, take int, status string) (*models.MonetizationRequestsResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	query := s.db.WithContext(ctx).Model(&models.MonetizationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var requests []models.MonetizationRequest
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].User.Password = ""
	}

	return &models.MonetizationRequestsResponse{
		Requests: requests,
		Total:    total,
		HasMore:  int64(skip+take) < total,
	}, nil
}

// ReviewRequest approves or rejects a pending request, moving the request and
// the user's status together and notifying the user.
func (s *MonetizationService) ReviewRequest(ctx context.Context, requestID string, approve bool, reason string) error {
	var request models.MonetizationRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if request.Status != models.RequestStatusPending {
		return errs.ErrConflict
	}

	now := time.Now()
	requestStatus := models.RequestStatusRejected
	userStatus := models.MonetizationRejected
	if approve {
		requestStatus = models.RequestStatusApproved
		userStatus = models.MonetizationApproved
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"status":      requestStatus,
			"reason":      reason,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"monetization_status": userStatus}
		if approve {
			updates["monetization_approved_at"] = now
		}
		return tx.Model(&models.User{}).Where("id = ?", request.UserID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	notificationType := models.NotificationTypeMonetizationRejected
	title := "Monetization Request Rejected"
	message := "Your monetization request has been rejected. Please review the requirements and try again."
	if approve {
		notificationType = models.NotificationTypeMonetizationApproved
		title = "Monetization Approved!"
		message = "Congratulations! Your monetization request has been approved. You can now earn revenue from your content."
	}
	s.notifications.Notify(ctx, models.Notification{
		ReceiverID: request.UserID,
		Type:       notificationType,
		Title:      title,
		Message:    message,
	})
	return nil
}

// GetRevenue summarizes a user's ad revenue, optionally for one period.
func (s *MonetizationService) GetRevenue(ctx context.Context, userID, period string) (*models.RevenueSummary, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var revenues []models.AdRevenue
	if err := query.Order("period DESC").Find(&revenues).Error; err != nil {
		return nil, err
	}

	summary := models.RevenueSummary{Revenues: revenues}
	for _, revenue := range revenues {
		summary.TotalAmount += revenue.Amount
		summary.TotalImpressions += revenue.Impressions
		summary.TotalClicks += revenue.Clicks
	}
	if summary.TotalImpressions > 0 {
		summary.AverageCTR = float64(summary.TotalClicks) / float64(summary.TotalImpressions) * 100
	}
	return &summary, nil
}

// SweepEligibility promotes NOT_ELIGIBLE users who now meet the thresholds.
// One user's failure never aborts the batch.
func (s *MonetizationService) SweepEligibility(ctx context.Context) error {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("monetization_status = ? AND is_active = ?", models.MonetizationNotEligible, true).
		Find(&users).Error; err != nil {
		return err
	}

	for _, user := range users {
		eligibility, err := s.CheckEligibility(ctx, user.ID)
		if err != nil {
			s.logger.Warn("Eligibility check failed during sweep",
				zap.String("userID", user.ID), zap.Error(err))
			continue
		}
		if !eligibility.Eligible {
			continue
		}

		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("monetization_status", models.MonetizationEligible).Error; err != nil {
			s.logger.Warn("Failed to mark user eligible",
				zap.String("userID", user.ID), zap.Error(err))
			continue
		}

		s.notifications.Notify(ctx, models.Notification{
			ReceiverID: user.ID,
			Type:       models.NotificationTypeSystem,
			Title:      "You're Eligible for Monetization!",
			Message:    "Congratulations! You now meet the requirements for monetization. Submit your request to start earning revenue.",
		})
	}
	return nil
}

// GenerateMonthlyRevenue creates mock ad revenue records for every approved
// creator from last month's views. Idempotent per (user, period): a creator
// who already has a record for the period is skipped, so reruns and process
// restarts never inflate revenue. Per-user failures are logged and skipped.
func (s *MonetizationService) GenerateMonthlyRevenue(ctx context.Context, now time.Time) error {
	lastMonth := now.AddDate(0, -1, 0)
	period := fmt.Sprintf("%04d-%02d", lastMonth.Year(), int(lastMonth.Month()))
	monthStart := time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var approved []models.User
	if err := s.db.WithContext(ctx).
		Where("monetization_status = ? AND is_active = ?", models.MonetizationApproved, true).
		Find(&approved).Error; err != nil {
		return err
	}

	for _, user := range approved {
		var existing int64
		if err := s.db.WithContext(ctx).Model(&models.AdRevenue{}).
			Where("user_id = ? AND period = ?", user.ID, period).
			Count(&existing).Error; err != nil {
			s.logger.Warn("Failed to check existing revenue",
				zap.String("userID", user.ID), zap.String("period", period), zap.Error(err))
			continue
		}
		if existing > 0 {
			continue
		}

		var views int64
		err := s.db.WithContext(ctx).Model(&models.PostView{}).
			Joins("JOIN posts ON posts.id = post_views.post_id").
			Where("post_views.created_at >= ? AND post_views.created_at < ?", monthStart, monthEnd).
			Where("posts.author_id = ?", user.ID).
			Count(&views).Error
		if err != nil {
			s.logger.Warn("Failed to count views for revenue",
				zap.String("userID", user.ID), zap.Error(err))
			continue
		}
		if views == 0 {
			continue
		}

		// Mock economics: 80% of views become impressions, 2-5% CTR,
		// $1.5-$4 CPM.
		impressions := int(float64(views) * 0.8)
		ctr := 0.02 + rand.Float64()*0.03
		clicks := int(float64(impressions) * ctr)
		cpm := 1.5 + rand.Float64()*2.5
		amount := float64(impressions) / 1000 * cpm

		revenue := models.AdRevenue{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			Period:      period,
			Amount:      amount,
			Impressions: impressions,
			Clicks:      clicks,
			CPM:         cpm,
			CTR:         ctr * 100,
		}
		if err := s.db.WithContext(ctx).Create(&revenue).Error; err != nil {
			s.logger.Warn("Failed to record ad revenue",
				zap.String("userID", user.ID), zap.String("period", period), zap.Error(err))
		}
	}
	return nil
}
