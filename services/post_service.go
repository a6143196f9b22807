package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/errs"
	"snaptika-api/models"
)

// PostService owns the post lifecycle and the engagement mutations. Every
// counter change travels in the same transaction as its backing record so a
// crash leaves both unchanged, never one without the other.
type PostService struct {
	db            *gorm.DB
	feeds         *FeedService
	notifications *NotificationService
	logger        *zap.Logger
}

func NewPostService(db *gorm.DB, feeds *FeedService, notifications *NotificationService, logger *zap.Logger) *PostService {
	return &PostService{
		db:            db,
		feeds:         feeds,
		notifications: notifications,
		logger:        logger.Named("posts"),
	}
}

type CreatePostInput struct {
	Caption   string   `json:"caption"`
	MediaUrls []string `json:"media_urls" binding:"required,min=1"`
	MediaType string   `json:"media_type" binding:"required,oneof=IMAGE VIDEO CAROUSEL"`
	Duration  int      `json:"duration"`
	Hashtags  []string `json:"hashtags"`
}

type UpdatePostInput struct {
	Caption    *string  `json:"caption"`
	Hashtags   []string `json:"hashtags"`
	IsArchived *bool    `json:"is_archived"`
}

type PostsFilter struct {
	Skip     int
	Take     int
	Hashtag  string
	AuthorID string
}

func (s *PostService) Create(ctx context.Context, authorID string, input CreatePostInput) (*models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Caption:   input.Caption,
		MediaUrls: models.StringSlice(input.MediaUrls),
		MediaType: input.MediaType,
		Duration:  input.Duration,
		Hashtags:  models.StringSlice(input.Hashtags),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", authorID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	// New content must show up for followers before their cache TTL runs out.
	if err := s.feeds.InvalidateAuthorFeeds(ctx, authorID); err != nil {
		s.logger.Warn("Feed invalidation after post create failed",
			zap.String("authorID", authorID), zap.Error(err))
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", post.ID).Error; err != nil {
		return nil, err
	}
	post.Author.Password = ""
	return &post, nil
}

// FindAll lists non-archived posts by active authors, newest first, with
// optional hashtag and author filters.
func (s *PostService) FindAll(ctx context.Context, viewerID string, filter PostsFilter) (*models.FeedResponse, error) {
	if filter.Take <= 0 {
		filter.Take = defaultFeedTake
	}
	if filter.Take > maxFeedTake {
		filter.Take = maxFeedTake
	}

	query := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("is_archived = ?", false).
		Where("author_id IN (?)", s.db.Model(&models.User{}).Select("id").Where("is_active = ?", true))

	if filter.Hashtag != "" {
		// Hashtags are stored as a JSON array; LIKE on the quoted value is
		// enough for exact-tag matching across MySQL and SQLite.
		query = query.Where("hashtags LIKE ?", `%"`+filter.Hashtag+`"%`)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := query.Preload("Author").
		Order("created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Take).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	annotated, err := annotateWithStatus(ctx, s.db, viewerID, posts)
	if err != nil {
		return nil, err
	}

	return &models.FeedResponse{
		Posts:   annotated,
		Total:   total,
		HasMore: int64(filter.Skip+filter.Take) < total,
	}, nil
}

func (s *PostService) FindOne(ctx context.Context, id, viewerID string) (*models.PostWithStatus, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if post.IsArchived {
		return nil, errs.ErrNotFound
	}

	annotated, err := annotateWithStatus(ctx, s.db, viewerID, []models.Post{post})
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

func (s *PostService) Update(ctx context.Context, id, userID string, input UpdatePostInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, errs.ErrForbidden
	}

	updates := map[string]interface{}{}
	if input.Caption != nil {
		updates["caption"] = *input.Caption
	}
	if input.Hashtags != nil {
		updates["hashtags"] = models.StringSlice(input.Hashtags)
	}
	if input.IsArchived != nil {
		updates["is_archived"] = *input.IsArchived
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	post.Author.Password = ""
	return &post, nil
}

func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if post.AuthorID != userID {
		return errs.ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - ?", 1)).Error
	})
	if err != nil {
		return err
	}

	if err := s.feeds.InvalidateAuthorFeeds(ctx, userID); err != nil {
		s.logger.Warn("Feed invalidation after post delete failed",
			zap.String("authorID", userID), zap.Error(err))
	}
	return nil
}

func (s *PostService) Like(ctx context.Context, postID, userID string) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if post.IsArchived {
		return errs.ErrNotFound
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return errs.ErrConflict
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		return err
	}

	if err := s.feeds.InvalidateViewerFeed(ctx, userID); err != nil {
		s.logger.Warn("Feed invalidation after like failed", zap.String("userID", userID), zap.Error(err))
	}

	if post.AuthorID != userID {
		s.notifications.Notify(ctx, models.Notification{
			ReceiverID: post.AuthorID,
			SenderID:   &userID,
			PostID:     &postID,
			Type:       models.NotificationTypeLike,
			Title:      "New like",
			Message:    "Someone liked your post",
		})
	}
	return nil
}

func (s *PostService) Unlike(ctx context.Context, postID, userID string) error {
	var like models.Like
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
	})
	if err != nil {
		return err
	}

	if err := s.feeds.InvalidateViewerFeed(ctx, userID); err != nil {
		s.logger.Warn("Feed invalidation after unlike failed", zap.String("userID", userID), zap.Error(err))
	}
	return nil
}

// View records a view once per (user, post). Repeat views only extend the
// stored watch duration; the counter never double-counts.
func (s *PostService) View(ctx context.Context, postID, userID string, duration int) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if post.IsArchived {
		return errs.ErrNotFound
	}

	var view models.PostView
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&view).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&models.PostView{PostID: postID, UserID: userID, Duration: duration}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
		})
	}

	if duration > view.Duration {
		return s.db.WithContext(ctx).Model(&view).Update("duration", duration).Error
	}
	return nil
}

func (s *PostService) Share(ctx context.Context, postID string) error {
	result := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND is_archived = ?", postID, false).
		UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *PostService) CreateComment(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if post.IsArchived {
		return nil, errs.ErrNotFound
	}

	comment := models.Comment{
		ID:      uuid.New().String(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		s.notifications.Notify(ctx, models.Notification{
			ReceiverID: post.AuthorID,
			SenderID:   &userID,
			PostID:     &postID,
			Type:       models.NotificationTypeComment,
			Title:      "New comment",
			Message:    "Someone commented on your post",
		})
	}

	if err := s.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	comment.User.Password = ""
	return &comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string, skip, take int) ([]models.Comment, int64, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	for i := range comments {
		comments[i].User.Password = ""
	}
	return comments, total, nil
}

// countRecentVideoViews is the monetization input: views of the author's
// videos of at least minDuration seconds within the trailing period.
func countRecentVideoViews(ctx context.Context, db *gorm.DB, authorID string, periodDays, minDuration int) (int64, error) {
	since := time.Now().AddDate(0, 0, -periodDays)

	var count int64
	err := db.WithContext(ctx).Model(&models.PostView{}).
		Joins("JOIN posts ON posts.id = post_views.post_id").
		Where("post_views.created_at >= ?", since).
		Where("posts.author_id = ?", authorID).
		Where("posts.media_type = ?", models.MediaTypeVideo).
		Where("posts.duration >= ?", minDuration).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
