package controllers

import (
	"net/http"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
// GET /api/v1/notifications?unread_only=true&page=&page_size=
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if c.Query("unread_only") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications", "code": codeInternal})
		return
	}

	var notifications []models.Notification
	if err := query.Order("create_at DESC").Offset(offset).Limit(size).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     notifications,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// GetNotificationCounter returns the unread badge count.
func GetNotificationCounter(c *gin.Context) {
	userID, _ := c.Get("userID")

	var unread int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkNotificationRead marks one notification as read.
// PUT /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification", "code": codeInternal})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead clears the unread badge.
// PUT /api/v1/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": res.RowsAffected,
	})
}
