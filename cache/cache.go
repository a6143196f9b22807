// Package cache wraps the Redis connection behind the small key/value surface
// the rest of the service needs: get, set with TTL, delete, and counter
// increments for rate limiting. Feed snapshots and notification pages are the
// only structured values stored here; both are expendable and the service
// recomputes them on a miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"snaptika-api/models"
)

const (
	feedKeyPrefix          = "feed:"
	notificationsKeyPrefix = "notifications:"
	rateLimitKeyPrefix     = "rate_limit:"
)

type Client struct {
	redis  rueidis.Client
	logger *zap.Logger
}

// New connects to Redis. The connection is verified lazily on first use.
func New(addr, username, password string, logger *zap.Logger) (*Client, error) {
	redis, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		Username:     username,
		Password:     password,
		ClientName:   "snaptika",
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return &Client{
		redis:  redis,
		logger: logger.Named("cache"),
	}, nil
}

// NewWithClient wraps an existing rueidis client. Used by tests.
func NewWithClient(redis rueidis.Client, logger *zap.Logger) *Client {
	return &Client{redis: redis, logger: logger.Named("cache")}
}

func (c *Client) Close() {
	c.redis.Close()
}

// Get returns the value for key, or ok=false on a miss.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.redis.Do(ctx, c.redis.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key with the given TTL. A zero TTL stores forever.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl > 0 {
		return c.redis.Do(ctx, c.redis.B().Set().Key(key).Value(value).Ex(ttl).Build()).Error()
	}
	return c.redis.Do(ctx, c.redis.B().Set().Key(key).Value(value).Build()).Error()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Do(ctx, c.redis.B().Del().Key(keys...).Build()).Error()
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.redis.Do(ctx, c.redis.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CheckRateLimit increments the counter for identifier and reports whether the
// caller is still within limit for the current window. The window starts when
// the counter is first created.
func (c *Client) CheckRateLimit(ctx context.Context, identifier string, limit int64, window time.Duration) (bool, error) {
	key := rateLimitKeyPrefix + identifier

	current, err := c.redis.Do(ctx, c.redis.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return false, err
	}

	if current == 1 {
		if err := c.redis.Do(ctx, c.redis.B().Expire().Key(key).Seconds(int64(window.Seconds())).Build()).Error(); err != nil {
			return false, err
		}
	}

	return current <= limit, nil
}

// CacheFeed stores the annotated first-page window for a viewer.
func (c *Client) CacheFeed(ctx context.Context, viewerID string, posts []models.PostWithStatus, ttl time.Duration) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}
	return c.Set(ctx, feedKeyPrefix+viewerID, string(data), ttl)
}

// CachedFeed returns the cached feed snapshot for a viewer, or ok=false when
// there is none. A corrupt entry is dropped and reported as a miss.
func (c *Client) CachedFeed(ctx context.Context, viewerID string) ([]models.PostWithStatus, bool, error) {
	value, ok, err := c.Get(ctx, feedKeyPrefix+viewerID)
	if err != nil || !ok {
		return nil, false, err
	}

	var posts []models.PostWithStatus
	if err := json.Unmarshal([]byte(value), &posts); err != nil {
		c.logger.Warn("Dropping corrupt feed cache entry",
			zap.String("viewerID", viewerID),
			zap.Error(err))
		_ = c.Del(ctx, feedKeyPrefix+viewerID)
		return nil, false, nil
	}
	return posts, true, nil
}

// InvalidateFeeds deletes the cached feed of every given viewer.
func (c *Client) InvalidateFeeds(ctx context.Context, viewerIDs ...string) error {
	if len(viewerIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(viewerIDs))
	for _, id := range viewerIDs {
		keys = append(keys, feedKeyPrefix+id)
	}
	return c.Del(ctx, keys...)
}

// InvalidateNotifications drops the cached notification page for a user.
func (c *Client) InvalidateNotifications(ctx context.Context, userID string) error {
	return c.Del(ctx, notificationsKeyPrefix+userID)
}

// NotificationsKey builds the cache key of a user's notification listing.
func NotificationsKey(userID string) string {
	return notificationsKeyPrefix + userID
}
