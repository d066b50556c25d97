package services

import (
	"errors"
	"fmt"
	"time"

	"member-portal-api/models"

	"gorm.io/gorm"
)

// ThreadService drives the open/closed sub-machine of message threads.
type ThreadService struct {
	db *gorm.DB
}

func NewThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{db: db}
}

// SetStatus moves a thread to the target state. Setting a thread to the state
// it is already in is an idempotent no-op (changed=false), including when a
// concurrent admin got there first.
func (s *ThreadService) SetStatus(threadID uint, target models.ThreadStatus, actorID int) (*models.MessageThread, bool, error) {
	if !target.Valid() {
		return nil, false, fmt.Errorf("invalid thread status %q", target)
	}

	var thread models.MessageThread
	if err := s.db.Where("thread_id = ? AND delete_at IS NULL", threadID).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrEntityNotFound
		}
		return nil, false, err
	}

	if thread.Status == target {
		return &thread, false, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    target,
		"update_at": now,
	}
	if target == models.ThreadClosed {
		updates["closed_at"] = now
	} else {
		updates["closed_at"] = nil
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	res := tx.Model(&models.MessageThread{}).
		Where("thread_id = ? AND status = ? AND delete_at IS NULL", threadID, thread.Status).
		Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race. If the other writer landed on the same target state the
		// operation is still an idempotent success.
		tx.Rollback()
		var current models.MessageThread
		if err := s.db.Where("thread_id = ? AND delete_at IS NULL", threadID).First(&current).Error; err != nil {
			return nil, false, err
		}
		if current.Status == target {
			return &current, false, nil
		}
		return nil, false, ErrInvalidTransition
	}

	oldStatus := string(thread.Status)
	history := models.ReviewStatusHistory{
		EntityType: EntityMessageThread,
		EntityID:   threadID,
		OldStatus:  &oldStatus,
		NewStatus:  string(target),
		ChangedBy:  actorID,
		CreatedAt:  now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, false, err
	}

	verb := "reopened"
	if target == models.ThreadClosed {
		verb = "closed"
	}
	if err := CreateNotification(tx, thread.UserID,
		fmt.Sprintf("Your consultation was %s", verb),
		fmt.Sprintf("Thread %q has been %s by an administrator.", thread.Subject, verb),
		"info", EntityMessageThread, threadID); err != nil {
		tx.Rollback()
		return nil, false, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, false, err
	}

	thread.Status = target
	thread.UpdateAt = now
	if target == models.ThreadClosed {
		thread.ClosedAt = &now
	} else {
		thread.ClosedAt = nil
	}
	return &thread, true, nil
}
