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

// GetProjects lists active projects members can browse.
// GET /api/v1/projects?page=&page_size=
func GetProjects(c *gin.Context) {
	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.Project{}).
		Where("is_active = ? AND delete_at IS NULL", true)

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

// GetProject returns one active project.
func GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.Where("project_id = ? AND is_active = ? AND delete_at IS NULL", id, true).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":                project,
		"accepting_applications": project.AcceptingApplications(time.Now()),
	})
}

type applicationRequest struct {
	ApplicantName     string `json:"applicant_name" binding:"required"`
	ApplicantPhone    string `json:"applicant_phone" binding:"required"`
	ApplicationReason string `json:"application_reason" binding:"required"`
}

// ApplyToProject creates an application. Applications skip the draft stage
// and enter review immediately.
// POST /api/v1/projects/:id/apply
func ApplyToProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}
	if !utils.ValidatePhone(req.ApplicantPhone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number", "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)

	var project models.Project
	if err := config.DB.Where("project_id = ? AND delete_at IS NULL", projectID).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found", "code": codeNotFound})
		return
	}

	now := time.Now()
	if !project.AcceptingApplications(now) {
		c.JSON(http.StatusConflict, gin.H{"error": "The application window for this project is closed", "code": codeConflict})
		return
	}

	// One live application per project per member.
	var count int64
	if err := config.DB.Model(&models.ProjectApplication{}).
		Where("project_id = ? AND user_id = ? AND delete_at IS NULL AND status NOT IN ?", projectID, userID,
			[]models.ReviewStatus{models.StatusRejected, models.StatusCancelled}).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check applications", "code": codeInternal})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this project", "code": codeConflict})
		return
	}

	application := models.ProjectApplication{
		ProjectID:         projectID,
		UserID:            uint(userID),
		ApplicantName:     utils.SanitizeInput(req.ApplicantName),
		ApplicantPhone:    utils.SanitizeInput(req.ApplicantPhone),
		ApplicationReason: utils.SanitizeInput(req.ApplicationReason),
		Status:            models.StatusSubmitted,
		SubmittedAt:       &now,
		CreateAt:          now,
		UpdateAt:          now,
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application", "code": codeInternal})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted",
		"application": application,
	})
}

// GetMyApplications lists the caller's project applications.
func GetMyApplications(c *gin.Context) {
	userID, _ := c.Get("userID")

	page, size, offset := listPagination(c)

	query := config.DB.Model(&models.ProjectApplication{}).
		Preload("Project", func(db *gorm.DB) *gorm.DB {
			return db.Select("project_id, title, apply_start, apply_end, is_active")
		}).
		Where("user_id = ? AND delete_at IS NULL", userID)

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseReviewStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
			return
		}
		query = query.Where("status = ?", parsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count applications", "code": codeInternal})
		return
	}

	var applications []models.ProjectApplication
	if err := query.Order("create_at DESC").Offset(offset).Limit(size).Find(&applications).Error; err != nil {
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

// UpdateApplication edits an application sent back for revision.
func UpdateApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}
	if !utils.ValidatePhone(req.ApplicantPhone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number", "code": codeValidation})
		return
	}

	var application models.ProjectApplication
	if err := config.DB.Where("application_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found", "code": codeNotFound})
		return
	}

	if application.Status != models.StatusRevisionRequested {
		c.JSON(http.StatusConflict, gin.H{"error": "Only revision-requested applications can be edited", "code": codeConflict})
		return
	}

	application.ApplicantName = utils.SanitizeInput(req.ApplicantName)
	application.ApplicantPhone = utils.SanitizeInput(req.ApplicantPhone)
	application.ApplicationReason = utils.SanitizeInput(req.ApplicationReason)
	application.UpdateAt = time.Now()

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated",
		"application": application,
	})
}

// ResubmitApplication sends an edited application back to review.
func ResubmitApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityProjectApplication, id, services.ActionResubmit, true)
}

// CancelApplication withdraws a submitted application.
func CancelApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityProjectApplication, id, services.ActionCancel, true)
}
