package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Redis
	RedisAddr     string
	RedisUsername string
	RedisPassword string

	// Feed cache
	FeedCacheTTL time.Duration

	// Monetization thresholds
	MinFollowers     int
	MinViews         int64
	PeriodDays       int
	MinVideoDuration int

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	feedTTL, _ := strconv.Atoi(getEnv("FEED_CACHE_TTL_SECONDS", "300"))
	minFollowers, _ := strconv.Atoi(getEnv("MIN_FOLLOWERS_FOR_MONETIZATION", "5000"))
	minViews, _ := strconv.ParseInt(getEnv("MIN_VIEWS_FOR_MONETIZATION", "100000"), 10, 64)
	periodDays, _ := strconv.Atoi(getEnv("MONETIZATION_PERIOD_DAYS", "30"))
	minDuration, _ := strconv.Atoi(getEnv("MIN_VIDEO_DURATION_FOR_VIEWS", "180"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/snaptika?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		FeedCacheTTL: time.Duration(feedTTL) * time.Second,

		MinFollowers:     minFollowers,
		MinViews:         minViews,
		PeriodDays:       periodDays,
		MinVideoDuration: minDuration,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@snaptika.com"),
		FromName:     getEnv("FROM_NAME", "Snaptika"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
