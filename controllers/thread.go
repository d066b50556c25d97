package controllers

import (
	"log"
	"net/http"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type threadRequest struct {
	Subject  string  `json:"subject" binding:"required"`
	Category *string `json:"category"`
	Body     string  `json:"body" binding:"required"`
}

// CreateThread opens a consultation thread with its first message.
// POST /api/v1/threads
func CreateThread(c *gin.Context) {
	var req threadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)
	now := time.Now()

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "code": codeInternal})
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	thread := models.MessageThread{
		UserID:   uint(userID),
		Subject:  utils.SanitizeInput(req.Subject),
		Category: req.Category,
		Status:   models.ThreadOpen,
		CreateAt: now,
		UpdateAt: now,
	}
	if err := tx.Create(&thread).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thread", "code": codeInternal})
		return
	}

	message := models.ThreadMessage{
		ThreadID: thread.ThreadID,
		SenderID: uint(userID),
		Body:     utils.SanitizeInput(req.Body),
		CreateAt: now,
	}
	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message", "code": codeInternal})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit thread", "code": codeInternal})
		return
	}

	thread.Messages = []models.ThreadMessage{message}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Thread created",
		"thread":  thread,
	})
}

// GetMyThreads lists the caller's threads.
// GET /api/v1/threads?status=&page=&page_size=
func GetMyThreads(c *gin.Context) {
	userID, _ := c.Get("userID")

	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.MessageThread{}).
		Where("user_id = ? AND delete_at IS NULL", userID)

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseThreadStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
			return
		}
		query = query.Where("status = ?", parsed)
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

// GetThread returns one thread with its messages, oldest first.
func GetThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var thread models.MessageThread
	if err := config.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("create_at ASC")
	}).Preload("Messages.Sender").
		Where("thread_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": thread})
}

type threadMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostThreadMessage appends a message. Closed threads reject new messages.
// POST /api/v1/threads/:id/messages
func PostThreadMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req threadMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	query := config.DB.Where("thread_id = ? AND delete_at IS NULL", id)
	if roleID != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var thread models.MessageThread
	if err := query.First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found", "code": codeNotFound})
		return
	}

	if thread.Status != models.ThreadOpen {
		c.JSON(http.StatusConflict, gin.H{"error": "Thread is closed", "code": codeConflict})
		return
	}

	now := time.Now()
	message := models.ThreadMessage{
		ThreadID: thread.ThreadID,
		SenderID: uint(userID),
		Body:     utils.SanitizeInput(req.Body),
		CreateAt: now,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message", "code": codeInternal})
		return
	}

	config.DB.Model(&models.MessageThread{}).
		Where("thread_id = ?", thread.ThreadID).
		Update("update_at", now)

	// Tell the member when an admin replies.
	if roleID == models.RoleAdmin && thread.UserID != uint(userID) {
		if err := services.CreateNotification(config.DB, thread.UserID,
			"New reply on your consultation",
			"An administrator replied to \""+thread.Subject+"\".",
			"info", services.EntityMessageThread, thread.ThreadID); err != nil {
			log.Printf("thread %d: notification failed: %v", thread.ThreadID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reply posted",
		"reply":   message,
	})
}
