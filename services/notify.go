package services

import (
	"fmt"
	"html/template"
	"log"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"

	"gorm.io/gorm"
)

// buildTransitionNotification renders the in-app notification row created for
// the owning member when a reviewer decides.
func buildTransitionNotification(entityType, label string, entityID, ownerID uint, next models.ReviewStatus, comment string) models.Notification {
	var (
		title     string
		notifType string
		body      string
	)

	switch next {
	case models.StatusApproved:
		title = fmt.Sprintf("Your %s was approved", label)
		notifType = "success"
		body = fmt.Sprintf("Your %s #%d has been approved.", label, entityID)
	case models.StatusRejected:
		title = fmt.Sprintf("Your %s was rejected", label)
		notifType = "error"
		body = fmt.Sprintf("Your %s #%d has been rejected. Reason: %s", label, entityID, comment)
	case models.StatusRevisionRequested:
		title = fmt.Sprintf("Revision requested on your %s", label)
		notifType = "warning"
		body = fmt.Sprintf("Your %s #%d needs changes before review can continue: %s", label, entityID, comment)
	default:
		title = fmt.Sprintf("Your %s status changed", label)
		notifType = "info"
		body = fmt.Sprintf("Your %s #%d is now %s.", label, entityID, next.Label())
	}

	entity := entityType
	id := entityID
	return models.Notification{
		UserID:            ownerID,
		Title:             title,
		Message:           body,
		Type:              notifType,
		RelatedEntityType: &entity,
		RelatedEntityID:   &id,
		IsRead:            false,
		CreateAt:          time.Now(),
	}
}

// CreateNotification inserts a plain in-app notification row.
func CreateNotification(db *gorm.DB, userID uint, title, message, notifType string, entityType string, entityID uint) error {
	n := models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     notifType,
		IsRead:   false,
		CreateAt: time.Now(),
	}
	if entityType != "" {
		n.RelatedEntityType = &entityType
		n.RelatedEntityID = &entityID
	}
	return db.Create(&n).Error
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func renderMailBody(greeting, message string) string {
	escapedGreeting := template.HTMLEscapeString(greeting)
	escapedMessage := template.HTMLEscapeString(message)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>%s</p>
  <p>%s</p>
  <p style="color:#888; font-size:12px;">This is an automated message from the member portal. Please do not reply.</p>
</body>
</html>`, escapedGreeting, escapedMessage)
}

// SendTransitionEmail mails the owning member about a reviewer decision.
// Failures are logged, never surfaced: mail is a collaborator side effect,
// not part of the transition.
func SendTransitionEmail(db *gorm.DB, result *TransitionResult) {
	if result == nil || result.ReviewedAt == nil {
		return
	}
	// Members acting on their own entity (cancellation) need no email.
	if result.ActorID > 0 && uint(result.ActorID) == result.OwnerID {
		return
	}

	var owner models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", result.OwnerID).First(&owner).Error; err != nil {
		log.Printf("transition email skipped, owner %d lookup failed: %v", result.OwnerID, err)
		return
	}
	if owner.Email == "" {
		return
	}

	subject := fmt.Sprintf("[Member Portal] %s #%d: %s", result.EntityLabel, result.EntityID, result.NewStatus.Label())
	message := fmt.Sprintf("The status of your %s #%d changed to %s.", result.EntityLabel, result.EntityID, result.NewStatus.Label())
	if result.Comment != "" {
		message += " Reviewer comment: " + result.Comment
	}
	greeting := "Dear " + owner.FullName() + ","

	sendMailSafe([]string{owner.Email}, subject, renderMailBody(greeting, message))
}
