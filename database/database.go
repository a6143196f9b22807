package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snaptika-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Unique constraints backing the duplicate-action guards. The services
	// check first and return a typed error; these constraints are the
	// authoritative line under concurrent writers.

	if err := db.Exec("ALTER TABLE likes ADD CONSTRAINT uk_likes_user_post UNIQUE (user_id, post_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for likes: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE post_views ADD CONSTRAINT uk_post_views_user_post UNIQUE (user_id, post_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for post_views: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE story_views ADD CONSTRAINT uk_story_views_user_story UNIQUE (user_id, story_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for story_views: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT uk_follows_follower_following UNIQUE (follower_id, following_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for follows: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != following_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for follows: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE ad_revenues ADD CONSTRAINT uk_ad_revenues_user_period UNIQUE (user_id, period)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for ad_revenues: %v\n", err)
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; probe information_schema so
	// repeated migrations stay quiet.
	var trendingIndexCount int64
	db.Raw("SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = 'posts' AND index_name = 'idx_posts_trending'").
		Scan(&trendingIndexCount)
	if trendingIndexCount == 0 {
		if err := db.Exec("CREATE INDEX idx_posts_trending ON posts(likes_count DESC, views_count DESC, created_at DESC)").Error; err != nil {
			fmt.Printf("Warning: Could not create trending index for posts: %v\n", err)
		}
	}

	return nil
}
