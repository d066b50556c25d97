package controllers

import (
	"net/http"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var performanceSortWhitelist = map[string]bool{
	"create_at":    true,
	"update_at":    true,
	"submitted_at": true,
	"record_year":  true,
	"record_type":  true,
	"amount":       true,
	"status":       true,
}

func adminPerformanceQuery(c *gin.Context) (*gorm.DB, string) {
	query := config.DB.Model(&models.PerformanceRecord{}).
		Preload("User").
		Where("performance_records.delete_at IS NULL")

	if memberID := queryAlias(c, "member_id", "memberId"); memberID != "" {
		query = query.Where("user_id = ?", memberID)
	}
	if recordType := c.Query("type"); recordType != "" {
		if !models.ValidRecordType(recordType) {
			return nil, "Invalid record type"
		}
		query = query.Where("record_type = ?", recordType)
	}
	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseReviewStatus(status)
		if !ok {
			return nil, "Invalid status filter"
		}
		query = query.Where("status = ?", parsed)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("record_year = ?", year)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if from := c.Query("date_from"); from != "" {
		query = query.Where("submitted_at >= ?", from)
	}
	if to := c.Query("date_to"); to != "" {
		query = query.Where("submitted_at <= ?", to)
	}

	return query, ""
}

// GetAdminPerformanceRecords lists performance records across all members.
// GET /api/v1/admin/performance?memberId=&type=&status=&year=&search=&date_from=&date_to=&page=&page_size=&sort=&dir=
func GetAdminPerformanceRecords(c *gin.Context) {
	page, size, offset := listPagination(c)

	query, badFilter := adminPerformanceQuery(c)
	if query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": badFilter, "code": codeValidation})
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count records", "code": codeInternal})
		return
	}

	sort := utils.SafeSort(c.Query("sort"), "create_at", performanceSortWhitelist)
	dir := utils.SortDirection(c.Query("dir"))

	var records []models.PerformanceRecord
	if err := query.Order(sort + " " + dir).Offset(offset).Limit(size).Find(&records).Error; err != nil {
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

// GetAdminPerformanceRecord returns one record with its status history.
func GetAdminPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var record models.PerformanceRecord
	if err := config.DB.Preload("User").
		Where("record_id = ? AND delete_at IS NULL", id).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
		return
	}

	var history []models.ReviewStatusHistory
	if err := config.DB.Where("entity_type = ? AND entity_id = ?", services.EntityPerformanceRecord, id).
		Order("created_at DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":  record,
		"history": history,
	})
}

// ApprovePerformanceRecord approves a submitted record.
func ApprovePerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionApprove, false)
}

// RejectPerformanceRecord rejects a submitted record. A comment is required.
func RejectPerformanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionReject, false)
}

// RequestPerformanceRevision sends a submitted record back for changes.
func RequestPerformanceRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityPerformanceRecord, id, services.ActionRequestRevision, false)
}
