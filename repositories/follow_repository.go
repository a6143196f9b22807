package repositories

import (
	"context"

	"gorm.io/gorm"

	"snaptika-api/models"
)

// FollowRepository provides read access to the follow graph. It never
// mutates; follow/unfollow writes live in the user service so the edge and
// the denormalized counters change in one transaction.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// FollowingIDs returns the ids of every user the viewer follows.
func (r *FollowRepository) FollowingIDs(ctx context.Context, viewerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FollowerIDs returns the ids of every user following the given user.
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsFollowing reports whether follower follows following.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
