package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/cache"
	"snaptika-api/models"
	"snaptika-api/repositories"
)

const (
	defaultFeedTake = 20
	maxFeedTake     = 50
	trendingWindow  = 7 * 24 * time.Hour
)

// FeedService composes the home feed: recent posts from followed authors
// mixed with trending posts from the rest of the network, annotated with the
// viewer's engagement flags and cached per viewer for the first page.
type FeedService struct {
	db      *gorm.DB
	follows *repositories.FollowRepository
	cache   *cache.Client
	ttl     time.Duration
	logger  *zap.Logger
}

func NewFeedService(db *gorm.DB, follows *repositories.FollowRepository, cacheClient *cache.Client, ttl time.Duration, logger *zap.Logger) *FeedService {
	return &FeedService{
		db:      db,
		follows: follows,
		cache:   cacheClient,
		ttl:     ttl,
		logger:  logger.Named("feed"),
	}
}

// GetFeed returns one page of the viewer's feed. Offset-0 requests are served
// from the cached snapshot while it is fresh; any other offset recomputes, so
// pagination never reads a stale multi-page snapshot.
func (s *FeedService) GetFeed(ctx context.Context, viewerID string, skip, take int) (*models.FeedResponse, error) {
	if take <= 0 {
		take = defaultFeedTake
	}
	if take > maxFeedTake {
		take = maxFeedTake
	}
	if skip < 0 {
		skip = 0
	}

	if skip == 0 {
		cached, ok, err := s.cache.CachedFeed(ctx, viewerID)
		if err != nil {
			// The cache is expendable; a broken cache read degrades to a
			// recompute instead of failing the request.
			s.logger.Warn("Feed cache read failed", zap.String("viewerID", viewerID), zap.Error(err))
		} else if ok {
			page := cached
			if take < len(page) {
				page = page[:take]
			}
			return &models.FeedResponse{
				Posts:   page,
				Total:   int64(len(cached)),
				HasMore: take < len(cached),
			}, nil
		}
	}

	followingIDs, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	merged, err := s.composeFeed(ctx, viewerID, followingIDs, take)
	if err != nil {
		return nil, err
	}

	total := len(merged)
	hasMore := skip+take < total

	var page []models.Post
	if skip < total {
		end := skip + take
		if end > total {
			end = total
		}
		page = merged[skip:end]
	}

	annotated, err := annotateWithStatus(ctx, s.db, viewerID, page)
	if err != nil {
		return nil, err
	}

	if skip == 0 {
		if err := s.cache.CacheFeed(ctx, viewerID, annotated, s.ttl); err != nil {
			s.logger.Warn("Feed cache write failed", zap.String("viewerID", viewerID), zap.Error(err))
		}
	}

	return &models.FeedResponse{
		Posts:   annotated,
		Total:   int64(total),
		HasMore: hasMore,
	}, nil
}

// composeFeed fetches the followed-author pool and the trending pool, merges
// them followed-first with recency as the tie breaker, and de-duplicates.
// The result is deterministic for identical data and follow set.
func (s *FeedService) composeFeed(ctx context.Context, viewerID string, followingIDs []string, take int) ([]models.Post, error) {
	var followed []models.Post
	if len(followingIDs) > 0 {
		err := s.db.WithContext(ctx).Preload("Author").
			Where("author_id IN ?", followingIDs).
			Where("is_archived = ?", false).
			Where("author_id IN (?)", s.activeAuthors()).
			Order("created_at DESC").
			Limit(take * 2).
			Find(&followed).Error
		if err != nil {
			return nil, err
		}
	}

	excluded := make([]string, 0, len(followingIDs)+1)
	excluded = append(excluded, followingIDs...)
	if viewerID != "" {
		excluded = append(excluded, viewerID)
	}

	var trending []models.Post
	trendingQuery := s.db.WithContext(ctx).Preload("Author").
		Where("is_archived = ?", false).
		Where("created_at >= ?", time.Now().Add(-trendingWindow)).
		Where("author_id IN (?)", s.activeAuthors()).
		Order("likes_count DESC, views_count DESC, created_at DESC").
		Limit(take / 2)
	if len(excluded) > 0 {
		trendingQuery = trendingQuery.Where("author_id NOT IN ?", excluded)
	}
	if err := trendingQuery.Find(&trending).Error; err != nil {
		return nil, err
	}

	followSet := make(map[string]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		followSet[id] = struct{}{}
	}

	merged := make([]models.Post, 0, len(followed)+len(trending))
	merged = append(merged, followed...)
	merged = append(merged, trending...)

	sort.SliceStable(merged, func(i, j int) bool {
		_, iFollowed := followSet[merged[i].AuthorID]
		_, jFollowed := followSet[merged[j].AuthorID]
		if iFollowed != jFollowed {
			return iFollowed
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	// The two pools are disjoint by construction; the guard keeps the
	// one-entry-per-post invariant even if that ever changes.
	seen := make(map[string]struct{}, len(merged))
	deduped := merged[:0]
	for _, post := range merged {
		if _, dup := seen[post.ID]; dup {
			continue
		}
		seen[post.ID] = struct{}{}
		deduped = append(deduped, post)
	}

	return deduped, nil
}

func (s *FeedService) activeAuthors() *gorm.DB {
	return s.db.Model(&models.User{}).Select("id").Where("is_active = ?", true)
}

// InvalidateAuthorFeeds drops the cached feeds of an author and all of their
// followers. Called after the author publishes a new post.
func (s *FeedService) InvalidateAuthorFeeds(ctx context.Context, authorID string) error {
	followerIDs, err := s.follows.FollowerIDs(ctx, authorID)
	if err != nil {
		return err
	}
	return s.cache.InvalidateFeeds(ctx, append(followerIDs, authorID)...)
}

// InvalidateViewerFeed drops a single viewer's cached feed.
func (s *FeedService) InvalidateViewerFeed(ctx context.Context, viewerID string) error {
	return s.cache.InvalidateFeeds(ctx, viewerID)
}

// annotateWithStatus attaches the viewer's like/view flags to a page of
// posts. Point lookups are fine at page granularity.
func annotateWithStatus(ctx context.Context, db *gorm.DB, viewerID string, posts []models.Post) ([]models.PostWithStatus, error) {
	annotated := make([]models.PostWithStatus, 0, len(posts))
	for _, post := range posts {
		entry := models.PostWithStatus{Post: post}
		entry.Author.Password = ""

		if viewerID != "" {
			var likeCount int64
			if err := db.WithContext(ctx).Model(&models.Like{}).
				Where("user_id = ? AND post_id = ?", viewerID, post.ID).
				Count(&likeCount).Error; err != nil {
				return nil, err
			}
			entry.IsLiked = likeCount > 0

			var viewCount int64
			if err := db.WithContext(ctx).Model(&models.PostView{}).
				Where("user_id = ? AND post_id = ?", viewerID, post.ID).
				Count(&viewCount).Error; err != nil {
				return nil, err
			}
			entry.IsViewed = viewCount > 0
		}

		annotated = append(annotated, entry)
	}
	return annotated, nil
}
