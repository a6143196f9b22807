package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snaptika-api/cache"
	"snaptika-api/config"
	"snaptika-api/controllers"
	"snaptika-api/middleware"
	"snaptika-api/repositories"
	"snaptika-api/services"
)

// Services bundles everything the route tree needs. Built once in main and in
// tests.
type Services struct {
	DB            *gorm.DB
	Cache         *cache.Client
	Config        *config.Config
	Logger        *zap.Logger
	Email         *services.EmailService
	Feeds         *services.FeedService
	Posts         *services.PostService
	Users         *services.UserService
	Stories       *services.StoryService
	Notifications *services.NotificationService
	Monetization  *services.MonetizationService
}

// BuildServices wires the service graph over the shared database and cache.
func BuildServices(db *gorm.DB, cacheClient *cache.Client, cfg *config.Config, logger *zap.Logger) *Services {
	follows := repositories.NewFollowRepository(db)
	notifications := services.NewNotificationService(db, cacheClient, logger)
	feeds := services.NewFeedService(db, follows, cacheClient, cfg.FeedCacheTTL, logger)

	return &Services{
		DB:            db,
		Cache:         cacheClient,
		Config:        cfg,
		Logger:        logger,
		Email:         services.NewEmailService(cfg, logger),
		Feeds:         feeds,
		Posts:         services.NewPostService(db, feeds, notifications, logger),
		Users:         services.NewUserService(db, follows, cacheClient, notifications, logger),
		Stories:       services.NewStoryService(db, follows, logger),
		Notifications: notifications,
		Monetization:  services.NewMonetizationService(db, cfg, notifications, logger),
	}
}

// SetupRoutes registers the whole API surface on the router.
func SetupRoutes(router *gin.Engine, deps *Services) {
	authController := controllers.NewAuthController(deps.DB, deps.Config, deps.Email)
	userController := controllers.NewUserController(deps.Users)
	postController := controllers.NewPostController(deps.Posts, deps.Feeds)
	storyController := controllers.NewStoryController(deps.Stories)
	notificationController := controllers.NewNotificationController(deps.Notifications)
	monetizationController := controllers.NewMonetizationController(deps.Monetization)
	reportController := controllers.NewReportController(deps.DB)
	adminController := controllers.NewAdminController(deps.DB, deps.Monetization, deps.Notifications)

	requireAuth := middleware.AuthMiddleware(deps.Config.JWTSecret)
	optionalAuth := middleware.OptionalAuthMiddleware(deps.Config.JWTSecret)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/verify-email", authController.VerifyEmail)
		auth.POST("/send-verification", requireAuth, authController.SendVerification)
		auth.GET("/me", requireAuth, authController.Me)
	}

	users := api.Group("/users")
	{
		users.GET("", optionalAuth, userController.GetUsers)
		users.GET("/:id", optionalAuth, userController.GetUser)
		users.GET("/username/:username", optionalAuth, userController.GetUserByUsername)
		users.GET("/:id/followers", optionalAuth, userController.GetFollowers)
		users.GET("/:id/following", optionalAuth, userController.GetFollowing)
		users.GET("/:id/stories", optionalAuth, storyController.GetUserStories)

		users.PATCH("/me", requireAuth, userController.UpdateProfile)
		users.POST("/:id/follow", requireAuth, userController.FollowUser)
		users.DELETE("/:id/follow", requireAuth, userController.UnfollowUser)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/feed", optionalAuth, postController.GetFeed)
		posts.GET("", optionalAuth, postController.GetPosts)
		posts.GET("/:id", optionalAuth, postController.GetPost)
		posts.GET("/:id/comments", optionalAuth, postController.GetComments)
		posts.POST("/:id/share", optionalAuth, postController.SharePost)

		posts.POST("", requireAuth,
			middleware.UserRateLimit(deps.Cache, "create_post", 10, time.Hour),
			postController.CreatePost)
		posts.PATCH("/:id", requireAuth, postController.UpdatePost)
		posts.DELETE("/:id", requireAuth, postController.DeletePost)
		posts.POST("/:id/like", requireAuth, postController.LikePost)
		posts.DELETE("/:id/like", requireAuth, postController.UnlikePost)
		posts.POST("/:id/view", requireAuth, postController.ViewPost)
		posts.POST("/:id/comments", requireAuth, postController.CreateComment)
	}

	stories := api.Group("/stories")
	{
		stories.GET("", optionalAuth, storyController.GetStories)
		stories.GET("/:id", optionalAuth, storyController.GetStory)

		stories.POST("", requireAuth, storyController.CreateStory)
		stories.DELETE("/:id", requireAuth, storyController.DeleteStory)
		stories.POST("/:id/view", requireAuth, storyController.ViewStory)
		stories.GET("/:id/viewers", requireAuth, storyController.GetStoryViewers)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", notificationController.GetNotifications)
		notifications.PATCH("/:id/read", notificationController.MarkAsRead)
		notifications.PATCH("/read-all", notificationController.MarkAllAsRead)
	}

	monetization := api.Group("/monetization", requireAuth)
	{
		monetization.GET("/eligibility", monetizationController.GetEligibility)
		monetization.POST("/request", monetizationController.RequestMonetization)
		monetization.GET("/revenue", monetizationController.GetRevenue)
	}

	api.POST("/reports", requireAuth, reportController.CreateReport)

	admin := api.Group("/admin", requireAuth, middleware.AdminMiddleware(deps.DB))
	{
		admin.GET("/stats", adminController.GetStats)
		admin.GET("/users", adminController.GetUsers)
		admin.PATCH("/users/:id/status", adminController.UpdateUserStatus)
		admin.PATCH("/users/:id/verify", adminController.VerifyUser)
		admin.GET("/reports", adminController.GetReports)
		admin.PATCH("/reports/:id", adminController.ReviewReport)
		admin.GET("/monetization/requests", adminController.GetMonetizationRequests)
		admin.PATCH("/monetization/requests/:id", adminController.ReviewMonetizationRequest)
	}
}
