package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"snaptika-api/models"
)

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:        uuid.New().String(),
		Email:     "admin@snaptika.com",
		Username:  "admin",
		Password:  string(adminPassword),
		FirstName: "Admin",
		LastName:  "User",
		Bio:       "Official Snaptika Admin Account",
		Verified:  true,
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		fmt.Printf("Warning: Could not create admin user: %v\n", err)
	}

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]models.User, 0, 3)
	for i := 1; i <= 3; i++ {
		user := models.User{
			ID:        uuid.New().String(),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Username:  fmt.Sprintf("user%d", i),
			Password:  string(password),
			FirstName: "User",
			LastName:  fmt.Sprintf("%d", i),
			Bio:       fmt.Sprintf("This is user %d's bio", i),
			IsActive:  true,
		}
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
			continue
		}
		users = append(users, user)
	}

	samplePosts := []models.Post{
		{
			Caption:   "Beautiful sunset at the beach",
			MediaUrls: models.StringSlice{"https://example.com/sunset.jpg"},
			MediaType: models.MediaTypeImage,
			Hashtags:  models.StringSlice{"sunset", "beach", "nature"},
		},
		{
			Caption:   "My latest dance routine! What do you think?",
			MediaUrls: models.StringSlice{"https://example.com/dance.mp4"},
			MediaType: models.MediaTypeVideo,
			Duration:  30,
			Hashtags:  models.StringSlice{"dance", "routine", "fun"},
		},
	}

	for _, user := range users {
		for _, sample := range samplePosts {
			post := sample
			post.ID = uuid.New().String()
			post.AuthorID = user.ID
			if err := db.Create(&post).Error; err != nil {
				fmt.Printf("Warning: Could not create test post for %s: %v\n", user.Username, err)
			}
		}
		db.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("posts_count", len(samplePosts))
	}

	if len(users) > 0 {
		welcome := models.Notification{
			ID:         uuid.New().String(),
			ReceiverID: users[0].ID,
			Type:       models.NotificationTypeSystem,
			Title:      "Welcome to Snaptika!",
			Message:    "Thanks for joining our community. Start by following some users and sharing your first post!",
			CreatedAt:  time.Now(),
		}
		if err := db.Create(&welcome).Error; err != nil {
			fmt.Printf("Warning: Could not create welcome notification: %v\n", err)
		}
	}

	fmt.Println("Database seeded with admin account and sample content")
	return nil
}
