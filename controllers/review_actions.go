package controllers

import (
	"net/http"

	"member-portal-api/config"
	"member-portal-api/monitor"
	"member-portal-api/services"

	"github.com/gin-gonic/gin"
)

type transitionRequest struct {
	Comment string `json:"comment"`
}

// runTransition is the review action dispatcher shared by all reviewable
// entities: it binds the optional comment, invokes the state machine and
// sends the owner mail after commit. ownerScoped restricts the action to rows
// owned by the caller (member endpoints); admin endpoints pass false.
func runTransition(c *gin.Context, entityType string, entityID uint, action services.ReviewAction, ownerScoped bool) {
	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": codeValidation})
			return
		}
	}

	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User context missing"})
		return
	}

	input := &services.TransitionInput{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Comment:    req.Comment,
		ActorID:    userID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	}
	if ownerScoped {
		owner := uint(userID)
		input.OwnerID = &owner
	}

	svc := services.NewReviewService(config.DB)
	result, err := svc.Transition(input)
	if err != nil {
		monitor.CountTransition(entityType, string(action), "error")
		respondServiceError(c, err)
		return
	}
	monitor.CountTransition(entityType, string(action), "ok")

	// Collaborator side effect, best effort after commit.
	services.SendTransitionEmail(config.DB, result)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entity": gin.H{
			"type":         result.EntityType,
			"id":           result.EntityID,
			"status":       result.NewStatus,
			"status_label": result.NewStatus.Label(),
			"reviewed_at":  result.ReviewedAt,
		},
	})
}
