package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snaptika-api/models"
	"snaptika-api/services"
)

// AdminController serves the moderation dashboard: platform stats, account
// management, reports and monetization reviews.
type AdminController struct {
	db            *gorm.DB
	monetization  *services.MonetizationService
	notifications *services.NotificationService
}

func NewAdminController(db *gorm.DB, monetization *services.MonetizationService, notifications *services.NotificationService) *AdminController {
	return &AdminController{
		db:            db,
		monetization:  monetization,
		notifications: notifications,
	}
}

func (ac *AdminController) GetStats(c *gin.Context) {
	var totalUsers, activeUsers, totalPosts, totalStories int64
	var pendingReports, pendingMonetization, newUsersWeek int64

	weekAgo := time.Now().AddDate(0, 0, -7)

	ac.db.Model(&models.User{}).Count(&totalUsers)
	ac.db.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers)
	ac.db.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&newUsersWeek)
	ac.db.Model(&models.Post{}).Where("is_archived = ?", false).Count(&totalPosts)
	ac.db.Model(&models.Story{}).Where("expires_at > ?", time.Now()).Count(&totalStories)
	ac.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&pendingReports)
	ac.db.Model(&models.MonetizationRequest{}).Where("status = ?", models.RequestStatusPending).Count(&pendingMonetization)

	c.JSON(http.StatusOK, gin.H{
		"total_users":          totalUsers,
		"active_users":         activeUsers,
		"new_users_this_week":  newUsersWeek,
		"total_posts":          totalPosts,
		"active_stories":       totalStories,
		"pending_reports":      pendingReports,
		"pending_monetization": pendingMonetization,
	})
}

// GetUsers lists all accounts including deactivated ones.
func (ac *AdminController) GetUsers(c *gin.Context) {
	skip, take := pagination(c)

	query := ac.db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset(skip).Limit(take).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	for i := range users {
		users[i].Password = ""
	}

	c.JSON(http.StatusOK, models.UsersResponse{
		Users:   users,
		Total:   total,
		HasMore: int64(skip+take) < total,
	})
}

type updateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// UpdateUserStatus activates or deactivates an account. Deactivated authors
// disappear from feeds and listings without losing their data.
func (ac *AdminController) UpdateUserStatus(c *gin.Context) {
	var req updateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.Param("id")
	result := ac.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("is_active", req.IsActive)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	title := "Account Deactivated"
	message := "Your account has been deactivated by a moderator. Contact support if you believe this is a mistake."
	if req.IsActive {
		title = "Account Reactivated"
		message = "Your account has been reactivated. Welcome back!"
	}
	ac.notifications.Notify(c.Request.Context(), models.Notification{
		ReceiverID: userID,
		Type:       models.NotificationTypeSystem,
		Title:      title,
		Message:    message,
	})

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

// VerifyUser grants the verified badge to an account.
func (ac *AdminController) VerifyUser(c *gin.Context) {
	userID := c.Param("id")

	result := ac.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("verified", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	ac.notifications.Notify(c.Request.Context(), models.Notification{
		ReceiverID: userID,
		Type:       models.NotificationTypeSystem,
		Title:      "Account Verified",
		Message:    "Your account has been verified.",
	})

	c.JSON(http.StatusOK, gin.H{"message": "User verified"})
}

func (ac *AdminController) GetReports(c *gin.Context) {
	skip, take := pagination(c)

	query := ac.db.Model(&models.Report{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	var reports []models.Report
	if err := query.Preload("Reporter").Preload("TargetUser").Preload("TargetPost").
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	for i := range reports {
		reports[i].Reporter.Password = ""
		if reports[i].TargetUser != nil {
			reports[i].TargetUser.Password = ""
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":  reports,
		"total":    total,
		"has_more": int64(skip+take) < total,
	})
}

type reviewReportRequest struct {
	Action     string `json:"action" binding:"required,oneof=RESOLVED DISMISSED"`
	Resolution string `json:"resolution" binding:"max=500"`
}

// ReviewReport closes a pending report. Resolving a report filed against a
// post archives the post in the same transaction.
func (ac *AdminController) ReviewReport(c *gin.Context) {
	var req reviewReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var report models.Report
	if err := ac.db.First(&report, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if report.Status != models.ReportStatusPending {
		c.JSON(http.StatusForbidden, gin.H{"error": "Report has already been reviewed"})
		return
	}

	now := time.Now()
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&report).Updates(map[string]interface{}{
			"status":      req.Action,
			"resolution":  req.Resolution,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}

		if req.Action == models.ReportStatusResolved && report.TargetPostID != nil {
			return tx.Model(&models.Post{}).Where("id = ?", *report.TargetPostID).
				UpdateColumn("is_archived", true).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report reviewed"})
}

func (ac *AdminController) GetMonetizationRequests(c *gin.Context) {
	skip, take := pagination(c)

	response, err := ac.monetization.GetRequests(c.Request.Context(), skip, take, c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to fetch monetization requests")
		return
	}

	c.JSON(http.StatusOK, response)
}

type reviewMonetizationRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" binding:"max=500"`
}

func (ac *AdminController) ReviewMonetizationRequest(c *gin.Context) {
	var req reviewMonetizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ac.monetization.ReviewRequest(c.Request.Context(), c.Param("id"), req.Approve, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to review monetization request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Monetization request reviewed"})
}
