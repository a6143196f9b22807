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
	"snaptika-api/repositories"
)

const storyLifetime = 24 * time.Hour

// StoryService owns the time-bounded story lifecycle. Expired stories are
// invisible to every read; the periodic sweep physically removes them.
type StoryService struct {
	db      *gorm.DB
	follows *repositories.FollowRepository
	logger  *zap.Logger
}

func NewStoryService(db *gorm.DB, follows *repositories.FollowRepository, logger *zap.Logger) *StoryService {
	return &StoryService{
		db:      db,
		follows: follows,
		logger:  logger.Named("stories"),
	}
}

type CreateStoryInput struct {
	MediaUrl  string   `json:"media_url" binding:"required"`
	MediaType string   `json:"media_type" binding:"required,oneof=IMAGE VIDEO"`
	Caption   string   `json:"caption"`
	Hashtags  []string `json:"hashtags"`
}

func (s *StoryService) Create(ctx context.Context, authorID string, input CreateStoryInput) (*models.Story, error) {
	story := models.Story{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		MediaUrl:  input.MediaUrl,
		MediaType: input.MediaType,
		Caption:   input.Caption,
		Hashtags:  models.StringSlice(input.Hashtags),
		ExpiresAt: time.Now().Add(storyLifetime),
	}

	if err := s.db.WithContext(ctx).Create(&story).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&story, "id = ?", story.ID).Error; err != nil {
		return nil, err
	}
	story.Author.Password = ""
	return &story, nil
}

// FindAll lists unexpired stories. For an authenticated viewer the listing is
// restricted to followed authors plus the viewer's own stories; anonymous
// viewers see all unexpired stories by active authors.
func (s *StoryService) FindAll(ctx context.Context, viewerID string, skip, take int) (*models.StoriesResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	query := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("expires_at > ?", time.Now()).
		Where("author_id IN (?)", s.db.Model(&models.User{}).Select("id").Where("is_active = ?", true))

	if viewerID != "" {
		followingIDs, err := s.follows.FollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		query = query.Where("author_id IN ?", append(followingIDs, viewerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var stories []models.Story
	if err := query.Preload("Author").
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&stories).Error; err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, viewerID, stories)
	if err != nil {
		return nil, err
	}

	return &models.StoriesResponse{
		Stories: annotated,
		Total:   total,
		HasMore: int64(skip+take) < total,
	}, nil
}

func (s *StoryService) FindUserStories(ctx context.Context, userID, viewerID string, skip, take int) (*models.StoriesResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	query := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("author_id = ?", userID).
		Where("expires_at > ?", time.Now())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var stories []models.Story
	if err := query.Preload("Author").
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&stories).Error; err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, viewerID, stories)
	if err != nil {
		return nil, err
	}

	return &models.StoriesResponse{
		Stories: annotated,
		Total:   total,
		HasMore: int64(skip+take) < total,
	}, nil
}

func (s *StoryService) FindOne(ctx context.Context, id, viewerID string) (*models.StoryWithStatus, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).Preload("Author").First(&story, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if story.Expired(time.Now()) {
		return nil, errs.ErrNotFound
	}

	annotated, err := s.annotate(ctx, viewerID, []models.Story{story})
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

func (s *StoryService) Remove(ctx context.Context, id, userID string) error {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if story.AuthorID != userID {
		return errs.ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&story).Error
	})
}

// View records a story view once per (user, story).
func (s *StoryService) View(ctx context.Context, storyID, userID string) error {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, "id = ?", storyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if story.Expired(time.Now()) {
		return errs.ErrNotFound
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.StoryView{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.StoryView{StoryID: storyID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	})
}

// Viewers lists who watched a story. Owner-only.
func (s *StoryService) Viewers(ctx context.Context, storyID, userID string, skip, take int) ([]models.StoryViewer, error) {
	if take <= 0 {
		take = defaultFeedTake
	}

	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, "id = ?", storyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if story.AuthorID != userID {
		return nil, errs.ErrForbidden
	}

	var views []models.StoryView
	if err := s.db.WithContext(ctx).Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&views).Error; err != nil {
		return nil, err
	}

	viewers := make([]models.StoryViewer, 0, len(views))
	for _, view := range views {
		view.User.Password = ""
		viewers = append(viewers, models.StoryViewer{User: view.User, ViewedAt: view.CreatedAt})
	}
	return viewers, nil
}

// CleanupExpired removes expired stories one by one so a single bad row never
// aborts the whole sweep. Returns how many were removed.
func (s *StoryService) CleanupExpired(ctx context.Context) (int, error) {
	var expired []models.Story
	if err := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Find(&expired).Error; err != nil {
		return 0, err
	}

	removed := 0
	for _, story := range expired {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("story_id = ?", story.ID).Delete(&models.StoryView{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Story{}, "id = ?", story.ID).Error
		})
		if err != nil {
			s.logger.Warn("Failed to remove expired story",
				zap.String("storyID", story.ID), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *StoryService) annotate(ctx context.Context, viewerID string, stories []models.Story) ([]models.StoryWithStatus, error) {
	annotated := make([]models.StoryWithStatus, 0, len(stories))
	for _, story := range stories {
		entry := models.StoryWithStatus{Story: story}
		entry.Author.Password = ""

		if viewerID != "" {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.StoryView{}).
				Where("user_id = ? AND story_id = ?", viewerID, story.ID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			entry.IsViewed = count > 0
		}
		annotated = append(annotated, entry)
	}
	return annotated, nil
}
