package controllers

import (
	"net/http"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type projectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Summary     *string    `json:"summary"`
	Description *string    `json:"description"`
	ApplyStart  *time.Time `json:"apply_start"`
	ApplyEnd    *time.Time `json:"apply_end"`
	IsActive    *bool      `json:"is_active"`
}

// CreateProject creates a project members can apply to.
// POST /api/v1/admin/projects
func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}
	if req.ApplyStart != nil && req.ApplyEnd != nil && req.ApplyEnd.Before(*req.ApplyStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apply_end must be after apply_start", "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)
	now := time.Now()

	project := models.Project{
		Title:       utils.SanitizeInput(req.Title),
		Summary:     req.Summary,
		Description: req.Description,
		ApplyStart:  req.ApplyStart,
		ApplyEnd:    req.ApplyEnd,
		IsActive:    true,
		CreatedBy:   &userID,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project", "code": codeInternal})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created",
		"project": project,
	})
}

// UpdateProject edits a project.
func UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	var project models.Project
	if err := config.DB.Where("project_id = ? AND delete_at IS NULL", id).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found", "code": codeNotFound})
		return
	}

	if req.Title != "" {
		project.Title = utils.SanitizeInput(req.Title)
	}
	if req.Summary != nil {
		project.Summary = req.Summary
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.ApplyStart != nil {
		project.ApplyStart = req.ApplyStart
	}
	if req.ApplyEnd != nil {
		project.ApplyEnd = req.ApplyEnd
	}
	if project.ApplyStart != nil && project.ApplyEnd != nil && project.ApplyEnd.Before(*project.ApplyStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apply_end must be after apply_start", "code": codeValidation})
		return
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	project.UpdateAt = time.Now()

	if err := config.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated",
		"project": project,
	})
}

// DeleteProject soft deletes a project that has no live applications.
func DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.Where("project_id = ? AND delete_at IS NULL", id).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found", "code": codeNotFound})
		return
	}

	var count int64
	if err := config.DB.Model(&models.ProjectApplication{}).
		Where("project_id = ? AND delete_at IS NULL AND status = ?", id, models.StatusSubmitted).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check applications", "code": codeInternal})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Project has applications awaiting review", "code": codeConflict})
		return
	}

	now := time.Now()
	project.DeleteAt = &now
	project.IsActive = false

	if err := config.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// GetAdminProjects lists all projects including inactive ones.
func GetAdminProjects(c *gin.Context) {
	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.Project{}).Where("delete_at IS NULL")
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects", "code": codeInternal})
		return
	}

	var projects []models.Project
	if err := query.Order("create_at DESC").Offset(offset).Limit(size).Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     projects,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

var applicationSortWhitelist = map[string]bool{
	"create_at":    true,
	"update_at":    true,
	"submitted_at": true,
	"status":       true,
}

func adminApplicationQuery(c *gin.Context) (*gorm.DB, string) {
	query := config.DB.Model(&models.ProjectApplication{}).
		Preload("User").
		Preload("Project", func(db *gorm.DB) *gorm.DB {
			return db.Select("project_id, title")
		}).
		Where("project_applications.delete_at IS NULL")

	if projectID := queryAlias(c, "project_id", "projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if memberID := queryAlias(c, "member_id", "memberId"); memberID != "" {
		query = query.Where("user_id = ?", memberID)
	}
	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseReviewStatus(status)
		if !ok {
			return nil, "Invalid status filter"
		}
		query = query.Where("status = ?", parsed)
	}
	if search := c.Query("search"); search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("applicant_name LIKE ? OR application_reason LIKE ?", searchTerm, searchTerm)
	}
	if from := c.Query("date_from"); from != "" {
		query = query.Where("submitted_at >= ?", from)
	}
	if to := c.Query("date_to"); to != "" {
		query = query.Where("submitted_at <= ?", to)
	}

	return query, ""
}

// GetAdminApplications lists project applications for review.
// GET /api/v1/admin/applications?projectId=&memberId=&status=&search=&date_from=&date_to=&page=&page_size=&sort=&dir=
func GetAdminApplications(c *gin.Context) {
	page, size, offset := listPagination(c)

	query, badFilter := adminApplicationQuery(c)
	if query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": badFilter, "code": codeValidation})
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count applications", "code": codeInternal})
		return
	}

	sort := utils.SafeSort(c.Query("sort"), "create_at", applicationSortWhitelist)
	dir := utils.SortDirection(c.Query("dir"))

	var applications []models.ProjectApplication
	if err := query.Order(sort + " " + dir).Offset(offset).Limit(size).Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     applications,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// GetAdminApplication returns one application with its status history.
func GetAdminApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var application models.ProjectApplication
	if err := config.DB.Preload("User").Preload("Project").
		Where("application_id = ? AND delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found", "code": codeNotFound})
		return
	}

	var history []models.ReviewStatusHistory
	if err := config.DB.Where("entity_type = ? AND entity_id = ?", services.EntityProjectApplication, id).
		Order("created_at DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"history":     history,
	})
}

// ApproveApplication approves a submitted application.
func ApproveApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityProjectApplication, id, services.ActionApprove, false)
}

// RejectApplication rejects a submitted application. A comment is required.
func RejectApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityProjectApplication, id, services.ActionReject, false)
}

// RequestApplicationRevision sends an application back for changes.
func RequestApplicationRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityProjectApplication, id, services.ActionRequestRevision, false)
}
