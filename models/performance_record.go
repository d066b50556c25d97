package models

import "time"

// Performance record facets. These mirror the type filter the admin list uses.
const (
	RecordTypeSales   = "sales"
	RecordTypeSupport = "support"
	RecordTypeIP      = "ip"
)

// ValidRecordType reports whether t is one of the known performance facets.
func ValidRecordType(t string) bool {
	switch t {
	case RecordTypeSales, RecordTypeSupport, RecordTypeIP:
		return true
	}
	return false
}

// PerformanceRecord represents the performance_records table. Members report
// yearly sales, government-support or IP figures which admins review.
type PerformanceRecord struct {
	RecordID    uint     `gorm:"primaryKey;column:record_id" json:"record_id"`
	UserID      uint     `gorm:"column:user_id" json:"user_id"`
	RecordType  string   `gorm:"column:record_type" json:"record_type"` // sales|support|ip
	RecordYear  int      `gorm:"column:record_year" json:"record_year"`
	Title       string   `gorm:"column:title" json:"title"`
	Description *string  `gorm:"column:description" json:"description,omitempty"`
	Amount      float64  `gorm:"column:amount" json:"amount"`
	Quantity    *int     `gorm:"column:quantity" json:"quantity,omitempty"`

	Status          ReviewStatus `gorm:"column:status" json:"status"`
	ReviewerComment *string      `gorm:"column:reviewer_comment" json:"reviewer_comment,omitempty"`
	SubmittedAt     *time.Time   `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time   `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for PerformanceRecord
func (PerformanceRecord) TableName() string {
	return "performance_records"
}

// StatusLabel exposes the shared presentation mapping.
func (p *PerformanceRecord) StatusLabel() string {
	return p.Status.Label()
}
