package models

import "time"

// ReviewStatusHistory tracks every status change of a reviewable entity.
type ReviewStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	EntityType string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID   uint      `gorm:"column:entity_id" json:"entity_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Reason     *string   `gorm:"column:reason" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ReviewStatusHistory.
func (ReviewStatusHistory) TableName() string {
	return "review_status_history"
}
