package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snaptika-api/cache"
	"snaptika-api/models"
	"snaptika-api/repositories"
)

type testEnv struct {
	db    *gorm.DB
	cache *cache.Client
	redis *miniredis.Miniredis

	follows       *repositories.FollowRepository
	feeds         *FeedService
	posts         *PostService
	users         *UserService
	stories       *StoryService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.PostView{},
		&models.Comment{},
		&models.Story{},
		&models.StoryView{},
		&models.Notification{},
		&models.MonetizationRequest{},
		&models.AdRevenue{},
		&models.Report{},
	))

	redis := miniredis.RunT(t)
	redisClient, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:       []string{redis.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	require.NoError(t, err)
	t.Cleanup(redisClient.Close)

	log := zap.NewNop()
	cacheClient := cache.NewWithClient(redisClient, log)

	follows := repositories.NewFollowRepository(db)
	notifications := NewNotificationService(db, cacheClient, log)
	feeds := NewFeedService(db, follows, cacheClient, 5*time.Minute, log)

	return &testEnv{
		db:            db,
		cache:         cacheClient,
		redis:         redis,
		follows:       follows,
		feeds:         feeds,
		posts:         NewPostService(db, feeds, notifications, log),
		users:         NewUserService(db, follows, cacheClient, notifications, log),
		stories:       NewStoryService(db, follows, log),
		notifications: notifications,
	}
}

func (env *testEnv) createUser(t *testing.T, username string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New().String(),
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     models.RoleUser,
		IsActive: true,
	}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func (env *testEnv) createPost(t *testing.T, authorID string, createdAt time.Time, likes int) models.Post {
	t.Helper()

	post := models.Post{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		Caption:    "caption",
		MediaUrls:  models.StringSlice{"https://cdn.example.com/media.jpg"},
		MediaType:  models.MediaTypeImage,
		LikesCount: likes,
		CreatedAt:  createdAt,
	}
	require.NoError(t, env.db.Create(&post).Error)
	return post
}

func (env *testEnv) follow(t *testing.T, followerID, followingID string) {
	t.Helper()
	require.NoError(t, env.users.Follow(context.Background(), followerID, followingID))
}
