package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snaptika-api/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	skip, take := pagination(c)

	response, err := nc.notifications.FindAll(c.Request.Context(), userID, skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := nc.notifications.MarkAsRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := nc.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to mark notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
