package controllers

import (
	"net/http"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/monitor"
	"member-portal-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAdminThreads lists consultation threads across all members.
// GET /api/v1/admin/threads?status=&search=&page=&page_size=
func GetAdminThreads(c *gin.Context) {
	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.MessageThread{}).
		Preload("User").
		Where("message_threads.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseThreadStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
			return
		}
		query = query.Where("status = ?", parsed)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("subject LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count threads", "code": codeInternal})
		return
	}

	var threads []models.MessageThread
	if err := query.Order("update_at DESC").Offset(offset).Limit(size).Find(&threads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threads", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     threads,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// GetAdminThread returns one thread with messages regardless of owner.
func GetAdminThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var thread models.MessageThread
	if err := config.DB.Preload("User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("create_at ASC")
		}).Preload("Messages.Sender").
		Where("thread_id = ? AND delete_at IS NULL", id).
		First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": thread})
}

// UpdateThreadStatus opens or closes a thread. Repeating the current status
// is an idempotent no-op.
// PATCH /api/v1/admin/threads/:id  body {status}
func UpdateThreadStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": codeValidation})
		return
	}

	target, ok := models.ParseThreadStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be open or closed", "code": codeValidation})
		return
	}

	action := "reopen"
	if target == models.ThreadClosed {
		action = "close"
	}

	userID, _ := getCurrentUserID(c)
	svc := services.NewThreadService(config.DB)
	thread, changed, err := svc.SetStatus(id, target, userID)
	if err != nil {
		monitor.CountTransition(services.EntityMessageThread, action, "error")
		respondServiceError(c, err)
		return
	}
	outcome := "noop"
	if changed {
		outcome = "ok"
	}
	monitor.CountTransition(services.EntityMessageThread, action, outcome)

	c.JSON(http.StatusOK, gin.H{
		"message": "Thread status set",
		"changed": changed,
		"thread":  thread,
	})
}
