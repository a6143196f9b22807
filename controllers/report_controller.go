package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"snaptika-api/models"
)

type ReportController struct {
	db *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db}
}

type createReportRequest struct {
	TargetUserID *string `json:"target_user_id"`
	TargetPostID *string `json:"target_post_id"`
	Reason       string  `json:"reason" binding:"required,max=500"`
}

// CreateReport files a moderation report against a user or a post.
func (rc *ReportController) CreateReport(c *gin.Context) {
	userID := c.GetString("user_id")

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetUserID == nil && req.TargetPostID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report needs a target user or post"})
		return
	}

	if req.TargetUserID != nil {
		var count int64
		rc.db.Model(&models.User{}).Where("id = ?", *req.TargetUserID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
	}
	if req.TargetPostID != nil {
		var count int64
		rc.db.Model(&models.Post{}).Where("id = ?", *req.TargetPostID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
	}

	report := models.Report{
		ID:           uuid.New().String(),
		ReporterID:   userID,
		TargetUserID: req.TargetUserID,
		TargetPostID: req.TargetPostID,
		Reason:       req.Reason,
		Status:       models.ReportStatusPending,
	}

	if err := rc.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}
