package controllers

import (
	"net/http"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/monitor"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var memberSortWhitelist = map[string]bool{
	"create_at":    true,
	"update_at":    true,
	"submitted_at": true,
	"company_name": true,
	"status":       true,
}

func adminMemberQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.MemberRegistration{}).
		Preload("User").
		Where("member_registrations.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseReviewStatus(status)
		if !ok {
			return nil
		}
		query = query.Where("status = ?", parsed)
	}

	if search := c.Query("search"); search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where(
			"company_name LIKE ? OR business_registration_number LIKE ? OR representative_name LIKE ? OR registration_number LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	if from := c.Query("date_from"); from != "" {
		query = query.Where("submitted_at >= ?", from)
	}
	if to := c.Query("date_to"); to != "" {
		query = query.Where("submitted_at <= ?", to)
	}

	return query
}

// GetAdminMembers lists member registrations with server-side filtering and
// pagination.
// GET /api/v1/admin/members?status=&search=&date_from=&date_to=&page=&page_size=&sort=&dir=
func GetAdminMembers(c *gin.Context) {
	page, size, offset := listPagination(c)

	query := adminMemberQuery(c)
	if query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count registrations", "code": codeInternal})
		return
	}

	sort := utils.SafeSort(c.Query("sort"), "create_at", memberSortWhitelist)
	dir := utils.SortDirection(c.Query("dir"))

	var members []models.MemberRegistration
	if err := query.Order(sort + " " + dir).Offset(offset).Limit(size).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"pagination": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}

// GetAdminMember returns one registration with its status history.
func GetAdminMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var member models.MemberRegistration
	if err := config.DB.Preload("User").
		Where("registration_id = ? AND delete_at IS NULL", id).
		First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found", "code": codeNotFound})
		return
	}

	var history []models.ReviewStatusHistory
	if err := config.DB.Where("entity_type = ? AND entity_id = ?", services.EntityMemberRegistration, id).
		Order("created_at DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":  member,
		"history": history,
	})
}

// UpdateMemberStatus drives the review machine through the PATCH contract the
// admin screens use.
// PATCH /api/v1/admin/members/:id/status  body {approvalStatus, comment?}
func UpdateMemberStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ApprovalStatus string `json:"approvalStatus" binding:"required"`
		Comment        string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": codeValidation})
		return
	}

	target, ok := models.ParseReviewStatus(req.ApprovalStatus)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown approval status", "code": codeValidation})
		return
	}

	var action services.ReviewAction
	switch target {
	case models.StatusApproved:
		action = services.ActionApprove
	case models.StatusRejected:
		action = services.ActionReject
	case models.StatusRevisionRequested:
		action = services.ActionRequestRevision
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "approvalStatus must be approved, rejected or revision_requested",
			"code":  codeValidation,
		})
		return
	}

	userID, _ := getCurrentUserID(c)
	svc := services.NewReviewService(config.DB)
	result, err := svc.Transition(&services.TransitionInput{
		EntityType: services.EntityMemberRegistration,
		EntityID:   id,
		Action:     action,
		Comment:    req.Comment,
		ActorID:    userID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	})
	if err != nil {
		monitor.CountTransition(services.EntityMemberRegistration, string(action), "error")
		respondServiceError(c, err)
		return
	}
	monitor.CountTransition(services.EntityMemberRegistration, string(action), "ok")

	services.SendTransitionEmail(config.DB, result)

	var member models.MemberRegistration
	if err := config.DB.Preload("User").First(&member, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload registration", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"member":  member,
	})
}
