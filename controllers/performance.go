package controllers

import (
	"net/http"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetMyPerformanceRecords lists the caller's performance records.
// GET /api/v1/performance?type=&status=&year=&page=&page_size=
func GetMyPerformanceRecords(c *gin.Context) {
	userID, _ := c.Get("userID")

	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.PerformanceRecord{}).
		Where("user_id = ? AND delete_at IS NULL", userID)

	if recordType := c.Query("type"); recordType != "" {
		if !models.ValidRecordType(recordType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record type", "code": codeValidation})
			return
		}
		query = query.Where("record_type = ?", recordType)
	}
	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseReviewStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
			return
		}
		query = query.Where("status = ?", parsed)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("record_year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count records", "code": codeInternal})
		return
	}

	var records []models.PerformanceRecord
	if err := query.Order("create_at DESC").Offset(offset).Limit(size).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     records,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// GetPerformanceRecord returns a single record owned by the caller.
func GetPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var record models.PerformanceRecord
	if err := config.DB.Where("record_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

type performanceRequest struct {
	RecordType  string   `json:"record_type" binding:"required"`
	RecordYear  int      `json:"record_year" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Quantity    *int     `json:"quantity"`
	Submit      bool     `json:"submit"` // create and submit in one call
}

// CreatePerformanceRecord creates a record as draft, or submitted when the
// request asks for it.
func CreatePerformanceRecord(c *gin.Context) {
	var req performanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}
	if !models.ValidRecordType(req.RecordType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_type must be sales, support or ip", "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)

	now := time.Now()
	record := models.PerformanceRecord{
		UserID:      uint(userID),
		RecordType:  req.RecordType,
		RecordYear:  req.RecordYear,
		Title:       utils.SanitizeInput(req.Title),
		Description: req.Description,
		Quantity:    req.Quantity,
		Status:      models.StatusDraft,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Submit {
		record.Status = models.StatusSubmitted
		record.SubmittedAt = &now
	}

	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record", "code": codeInternal})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Performance record created",
		"record":  record,
	})
}

// UpdatePerformanceRecord edits a draft or revision-requested record.
func UpdatePerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var req performanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	var record models.PerformanceRecord
	if err := config.DB.Where("record_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
		return
	}

	if record.Status != models.StatusDraft && record.Status != models.StatusRevisionRequested {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft or revision-requested records can be edited", "code": codeConflict})
		return
	}

	if req.RecordType != "" {
		if !models.ValidRecordType(req.RecordType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record_type must be sales, support or ip", "code": codeValidation})
			return
		}
		record.RecordType = req.RecordType
	}
	if req.RecordYear != 0 {
		record.RecordYear = req.RecordYear
	}
	if req.Title != "" {
		record.Title = utils.SanitizeInput(req.Title)
	}
	if req.Description != nil {
		record.Description = req.Description
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Quantity != nil {
		record.Quantity = req.Quantity
	}
	record.UpdateAt = time.Now()

	if err := config.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Performance record updated",
		"record":  record,
	})
}

// SubmitPerformanceRecord moves a draft into review.
func SubmitPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionSubmit, true)
}

// ResubmitPerformanceRecord sends an edited record back to review.
func ResubmitPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionResubmit, true)
}

// CancelPerformanceRecord withdraws a submitted record.
func CancelPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionCancel, true)
}

// DeletePerformanceRecord soft deletes a draft.
func DeletePerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var record models.PerformanceRecord
	if err := config.DB.Where("record_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
		return
	}

	if record.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only drafts can be deleted", "code": codeConflict})
		return
	}

	now := time.Now()
	record.DeleteAt = &now

	if err := config.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Performance record deleted"})
}
