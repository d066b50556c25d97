package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"member-portal-api/models"

	"gorm.io/gorm"
)

// Sentinel errors mapped to HTTP responses by the controllers.
var (
	ErrCommentRequired   = errors.New("a non-empty comment is required for this action")
	ErrInvalidTransition = errors.New("entity is not in the required state for this action")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrUnknownEntityType = errors.New("unknown reviewable entity type")
)

// ReviewAction is an edge of the shared review state machine.
type ReviewAction string

const (
	ActionSubmit          ReviewAction = "submit"
	ActionApprove         ReviewAction = "approve"
	ActionReject          ReviewAction = "reject"
	ActionRequestRevision ReviewAction = "request_revision"
	ActionResubmit        ReviewAction = "resubmit"
	ActionCancel          ReviewAction = "cancel"
)

// reviewerAction reports whether the action is taken by an admin reviewer.
func reviewerAction(a ReviewAction) bool {
	switch a {
	case ActionApprove, ActionReject, ActionRequestRevision:
		return true
	}
	return false
}

// NextStatus is the pure transition table. It validates the comment guard and
// the source state and returns the target state without touching storage.
func NextStatus(current models.ReviewStatus, action ReviewAction, comment string) (models.ReviewStatus, error) {
	switch action {
	case ActionSubmit:
		if current != models.StatusDraft {
			return "", ErrInvalidTransition
		}
		return models.StatusSubmitted, nil
	case ActionApprove:
		// Comment is optional here.
		if current != models.StatusSubmitted {
			return "", ErrInvalidTransition
		}
		return models.StatusApproved, nil
	case ActionReject:
		if strings.TrimSpace(comment) == "" {
			return "", ErrCommentRequired
		}
		if current != models.StatusSubmitted {
			return "", ErrInvalidTransition
		}
		return models.StatusRejected, nil
	case ActionRequestRevision:
		if strings.TrimSpace(comment) == "" {
			return "", ErrCommentRequired
		}
		if current != models.StatusSubmitted {
			return "", ErrInvalidTransition
		}
		return models.StatusRevisionRequested, nil
	case ActionResubmit:
		if current != models.StatusRevisionRequested {
			return "", ErrInvalidTransition
		}
		return models.StatusSubmitted, nil
	case ActionCancel:
		if current != models.StatusSubmitted {
			return "", ErrInvalidTransition
		}
		return models.StatusCancelled, nil
	}
	return "", fmt.Errorf("unsupported review action %q", action)
}

// Reviewable entity type keys, shared with history and audit rows.
const (
	EntityMemberRegistration = "member_registration"
	EntityPerformanceRecord  = "performance_record"
	EntityProjectApplication = "project_application"
	EntityMessageThread      = "message_thread"
)

// reviewTarget describes one table driven by the shared machine. All three
// tables carry the same status/reviewer_comment/submitted_at/reviewed_at
// columns, so one executor serves them.
type reviewTarget struct {
	table    string
	idColumn string
	label    string
}

var reviewTargets = map[string]reviewTarget{
	EntityMemberRegistration: {table: "member_registrations", idColumn: "registration_id", label: "member registration"},
	EntityPerformanceRecord:  {table: "performance_records", idColumn: "record_id", label: "performance record"},
	EntityProjectApplication: {table: "project_applications", idColumn: "application_id", label: "project application"},
}

// ReviewService executes review transitions against the database.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// TransitionInput carries one requested state change.
type TransitionInput struct {
	EntityType string
	EntityID   uint
	Action     ReviewAction
	Comment    string
	ActorID    int
	OwnerID    *uint // when set, the row must belong to this user
	IPAddress  string
	UserAgent  string
}

// TransitionResult reports the applied change.
type TransitionResult struct {
	EntityType  string
	EntityLabel string
	EntityID    uint
	OwnerID     uint
	ActorID     int
	OldStatus   models.ReviewStatus
	NewStatus   models.ReviewStatus
	Comment     string
	ReviewedAt  *time.Time
}

type reviewRow struct {
	ID     uint                `gorm:"column:id"`
	Status models.ReviewStatus `gorm:"column:status"`
	UserID uint                `gorm:"column:user_id"`
}

// Transition applies one review action atomically. The status update is
// guarded on the observed source state, so when two admin sessions race the
// loser sees zero affected rows and gets ErrInvalidTransition with no side
// effects instead of a silent double approval.
func (s *ReviewService) Transition(in *TransitionInput) (*TransitionResult, error) {
	target, ok := reviewTargets[in.EntityType]
	if !ok {
		return nil, ErrUnknownEntityType
	}

	comment := strings.TrimSpace(in.Comment)

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var row reviewRow
	query := tx.Table(target.table).
		Select(target.idColumn + " AS id, status, user_id").
		Where(target.idColumn+" = ? AND delete_at IS NULL", in.EntityID)
	if in.OwnerID != nil {
		query = query.Where("user_id = ?", *in.OwnerID)
	}
	if err := query.Take(&row).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	next, err := NextStatus(row.Status, in.Action, comment)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    next,
		"update_at": now,
	}
	switch in.Action {
	case ActionSubmit, ActionResubmit:
		updates["submitted_at"] = now
	case ActionApprove, ActionReject, ActionRequestRevision, ActionCancel:
		// Every exit from submitted stamps reviewed_at, cancellation
		// included, so the timestamp always records when review ended.
		updates["reviewed_at"] = now
	}
	if comment != "" {
		updates["reviewer_comment"] = comment
	}

	res := tx.Table(target.table).
		Where(target.idColumn+" = ? AND status = ? AND delete_at IS NULL", in.EntityID, row.Status).
		Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else moved the row between our read and write.
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	oldStatus := string(row.Status)
	history := models.ReviewStatusHistory{
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		OldStatus:  &oldStatus,
		NewStatus:  string(next),
		ChangedBy:  in.ActorID,
		CreatedAt:  now,
	}
	if comment != "" {
		history.Reason = &comment
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	auditValues := map[string]interface{}{
		"action":  string(in.Action),
		"comment": comment,
		"status":  string(next),
	}
	serialized, _ := json.Marshal(auditValues)
	entityID := in.EntityID
	description := fmt.Sprintf("%s %s #%d: %s -> %s", in.Action, target.label, in.EntityID, row.Status, next)
	audit := models.AuditLog{
		UserID:      in.ActorID,
		Action:      string(in.Action),
		EntityType:  in.EntityType,
		EntityID:    &entityID,
		NewValues:   strPtr(string(serialized)),
		Description: strPtr(description),
		IPAddress:   in.IPAddress,
		CreatedAt:   now,
	}
	if strings.TrimSpace(in.UserAgent) != "" {
		ua := in.UserAgent
		audit.UserAgent = &ua
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Reviewer decisions notify the owning member inside the same tx.
	if reviewerAction(in.Action) {
		notification := buildTransitionNotification(in.EntityType, target.label, in.EntityID, row.UserID, next, comment)
		if err := tx.Create(&notification).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	result := &TransitionResult{
		EntityType:  in.EntityType,
		EntityLabel: target.label,
		EntityID:    in.EntityID,
		OwnerID:     row.UserID,
		ActorID:     in.ActorID,
		OldStatus:   row.Status,
		NewStatus:   next,
		Comment:     comment,
	}
	if reviewerAction(in.Action) || in.Action == ActionCancel {
		result.ReviewedAt = &now
	}
	return result, nil
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
