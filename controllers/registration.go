package controllers

import (
	"fmt"
	"net/http"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
)

type registrationPayload struct {
	CompanyName                string   `json:"company_name"`
	BusinessRegistrationNumber string   `json:"business_registration_number"`
	RepresentativeName         string   `json:"representative_name"`
	BusinessType               *string  `json:"business_type"`
	Address                    *string  `json:"address"`
	ContactPhone               *string  `json:"contact_phone"`
	ContactEmail               *string  `json:"contact_email"`
	EmployeeCount              *int     `json:"employee_count"`
	AnnualRevenue              *float64 `json:"annual_revenue"`
	Introduction               *string  `json:"introduction"`
}

func (p *registrationPayload) applyTo(r *models.MemberRegistration) {
	if p.CompanyName != "" {
		r.CompanyName = utils.SanitizeInput(p.CompanyName)
	}
	if p.BusinessRegistrationNumber != "" {
		r.BusinessRegistrationNumber = utils.SanitizeInput(p.BusinessRegistrationNumber)
	}
	if p.RepresentativeName != "" {
		r.RepresentativeName = utils.SanitizeInput(p.RepresentativeName)
	}
	if p.BusinessType != nil {
		r.BusinessType = p.BusinessType
	}
	if p.Address != nil {
		r.Address = p.Address
	}
	if p.ContactPhone != nil {
		r.ContactPhone = p.ContactPhone
	}
	if p.ContactEmail != nil {
		r.ContactEmail = p.ContactEmail
	}
	if p.EmployeeCount != nil {
		r.EmployeeCount = p.EmployeeCount
	}
	if p.AnnualRevenue != nil {
		r.AnnualRevenue = p.AnnualRevenue
	}
	if p.Introduction != nil {
		r.Introduction = p.Introduction
	}
}

// GetMyRegistrations returns the caller's registrations.
func GetMyRegistrations(c *gin.Context) {
	userID, _ := c.Get("userID")

	var registrations []models.MemberRegistration
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).
		Order("create_at DESC").Find(&registrations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": registrations,
		"total": len(registrations),
	})
}

// GetRegistration returns a single registration owned by the caller.
func GetRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var registration models.MemberRegistration
	if err := config.DB.Where("registration_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found", "code": codeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registration": registration})
}

// CreateRegistration starts a registration draft (the wizard saves into it).
func CreateRegistration(c *gin.Context) {
	var req registrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	userID, _ := getCurrentUserID(c)

	// One live registration per member.
	var count int64
	if err := config.DB.Model(&models.MemberRegistration{}).
		Where("user_id = ? AND delete_at IS NULL AND status NOT IN ?", userID,
			[]models.ReviewStatus{models.StatusRejected, models.StatusCancelled}).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check registrations", "code": codeInternal})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active registration", "code": codeConflict})
		return
	}

	now := time.Now()
	registration := models.MemberRegistration{
		UserID:             uint(userID),
		RegistrationNumber: generateRegistrationNumber(),
		Status:             models.StatusDraft,
		CreateAt:           now,
		UpdateAt:           now,
	}
	req.applyTo(&registration)

	if err := config.DB.Create(&registration).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration", "code": codeInternal})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registration draft created",
		"registration": registration,
	})
}

// UpdateRegistration edits a draft or revision-requested registration.
func UpdateRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var req registrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
		return
	}

	var registration models.MemberRegistration
	if err := config.DB.Where("registration_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found", "code": codeNotFound})
		return
	}

	if registration.Status != models.StatusDraft && registration.Status != models.StatusRevisionRequested {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft or revision-requested registrations can be edited", "code": codeConflict})
		return
	}

	req.applyTo(&registration)
	registration.UpdateAt = time.Now()

	if err := config.DB.Save(&registration).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update registration", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Registration updated",
		"registration": registration,
	})
}

// SubmitRegistration moves a complete draft into review.
func SubmitRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := getCurrentUserID(c)

	var registration models.MemberRegistration
	if err := config.DB.Where("registration_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found", "code": codeNotFound})
		return
	}
	if !registration.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Company name, business registration number and representative are required before submitting",
			"code":  codeValidation,
		})
		return
	}

	runTransition(c, services.EntityMemberRegistration, id, services.ActionSubmit, true)
}

// ResubmitRegistration sends an edited registration back to review.
func ResubmitRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityMemberRegistration, id, services.ActionResubmit, true)
}

// CancelRegistration withdraws a submitted registration.
func CancelRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	runTransition(c, services.EntityMemberRegistration, id, services.ActionCancel, true)
}

// DeleteRegistration soft deletes a draft.
func DeleteRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := c.Get("userID")

	var registration models.MemberRegistration
	if err := config.DB.Where("registration_id = ? AND user_id = ? AND delete_at IS NULL", id, userID).
		First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found", "code": codeNotFound})
		return
	}

	if registration.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only drafts can be deleted", "code": codeConflict})
		return
	}

	now := time.Now()
	registration.DeleteAt = &now

	if err := config.DB.Save(&registration).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete registration", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted"})
}

// generateRegistrationNumber formats REG-YYYYMMDD-XXXX using today's count.
func generateRegistrationNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	var count int64
	config.DB.Model(&models.MemberRegistration{}).
		Where("DATE(create_at) = DATE(NOW())").
		Count(&count)

	return fmt.Sprintf("REG-%s-%04d", dateStr, count+1)
}
