package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/cache"
	"snaptika-api/errs"
	"snaptika-api/models"
	"snaptika-api/repositories"
)

// UserService owns profiles and the follow graph. Follow edge writes and the
// denormalized follower/following counters always move in one transaction so
// the counters track edge cardinality.
type UserService struct {
	db            *gorm.DB
	follows       *repositories.FollowRepository
	cache         *cache.Client
	notifications *NotificationService
	logger        *zap.Logger
}

func NewUserService(db *gorm.DB, follows *repositories.FollowRepository, cacheClient *cache.Client, notifications *NotificationService, logger *zap.Logger) *UserService {
	return &UserService{
		db:            db,
		follows:       follows,
		cache:         cacheClient,
		notifications: notifications,
		logger:        logger.Named("users"),
	}
}

func (s *UserService) FindAll(ctx context.Context, search string, skip, take int) (*models.UsersResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	query := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset(skip).Limit(take).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}

	return &models.UsersResponse{
		Users:   users,
		Total:   total,
		HasMore: int64(skip+take) < total,
	}, nil
}

// FindOne returns a user's profile with the viewer's follow relation.
func (s *UserService) FindOne(ctx context.Context, id, viewerID string) (*models.UserWithRelation, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.ErrNotFound
	}
	user.Password = ""

	profile := models.UserWithRelation{User: user}
	if viewerID != "" && viewerID != id {
		following, err := s.follows.IsFollowing(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
		followedBy, err := s.follows.IsFollowing(ctx, id, viewerID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
		profile.IsFollowedBy = followedBy
	}
	return &profile, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username, viewerID string) (*models.UserWithRelation, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return s.FindOne(ctx, user.ID, viewerID)
}

type UpdateProfileInput struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	if input.Username != nil {
		var existing models.User
		err := s.db.WithContext(ctx).First(&existing, "username = ?", *input.Username).Error
		if err == nil && existing.ID != userID {
			return nil, errs.ErrConflict
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func (s *UserService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return errs.ErrConflict
	}

	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if !target.IsActive {
		return errs.ErrNotFound
	}

	following, err := s.follows.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if following {
		return errs.ErrConflict
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1)).Error
	})
	if err != nil {
		return err
	}

	// A new edge changes what both feeds should contain.
	if err := s.cache.InvalidateFeeds(ctx, followerID, followingID); err != nil {
		s.logger.Warn("Feed invalidation after follow failed",
			zap.String("followerID", followerID), zap.Error(err))
	}

	s.notifications.Notify(ctx, models.Notification{
		ReceiverID: followingID,
		SenderID:   &followerID,
		Type:       models.NotificationTypeFollow,
		Title:      "New follower",
		Message:    "Someone started following you",
	})
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followingID string) error {
	var follow models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&follow).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count - ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count - ?", 1)).Error
	})
	if err != nil {
		return err
	}

	if err := s.cache.InvalidateFeeds(ctx, followerID, followingID); err != nil {
		s.logger.Warn("Feed invalidation after unfollow failed",
			zap.String("followerID", followerID), zap.Error(err))
	}
	return nil
}

func (s *UserService) GetFollowers(ctx context.Context, userID string, skip, take int) ([]models.User, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	var follows []models.Follow
	if err := s.db.WithContext(ctx).Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&follows).Error; err != nil {
		return nil, err
	}

	followers := make([]models.User, 0, len(follows))
	for _, follow := range follows {
		follow.Follower.Password = ""
		followers = append(followers, follow.Follower)
	}
	return followers, nil
}

func (s *UserService) GetFollowing(ctx context.Context, userID string, skip, take int) ([]models.User, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	var follows []models.Follow
	if err := s.db.WithContext(ctx).Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&follows).Error; err != nil {
		return nil, err
	}

	following := make([]models.User, 0, len(follows))
	for _, follow := range follows {
		follow.Following.Password = ""
		following = append(following, follow.Following)
	}
	return following, nil
}
