package models

import "time"

// Project represents the projects table. Admins post support projects that
// members can apply to while the apply window is open.
type Project struct {
	ProjectID   uint       `gorm:"primaryKey;column:project_id" json:"project_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Summary     *string    `gorm:"column:summary" json:"summary,omitempty"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	ApplyStart  *time.Time `gorm:"column:apply_start" json:"apply_start,omitempty"`
	ApplyEnd    *time.Time `gorm:"column:apply_end" json:"apply_end,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreatedBy   *int       `gorm:"column:created_by" json:"created_by,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// AcceptingApplications checks the apply window against now.
func (p *Project) AcceptingApplications(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ApplyStart != nil && now.Before(*p.ApplyStart) {
		return false
	}
	if p.ApplyEnd != nil && now.After(*p.ApplyEnd) {
		return false
	}
	return true
}

// ProjectApplication represents the project_applications table.
type ProjectApplication struct {
	ApplicationID     uint   `gorm:"primaryKey;column:application_id" json:"application_id"`
	ProjectID         uint   `gorm:"column:project_id" json:"project_id"`
	UserID            uint   `gorm:"column:user_id" json:"user_id"`
	ApplicantName     string `gorm:"column:applicant_name" json:"applicant_name"`
	ApplicantPhone    string `gorm:"column:applicant_phone" json:"applicant_phone"`
	ApplicationReason string `gorm:"column:application_reason" json:"application_reason"`

	Status          ReviewStatus `gorm:"column:status" json:"status"`
	ReviewerComment *string      `gorm:"column:reviewer_comment" json:"reviewer_comment,omitempty"`
	SubmittedAt     *time.Time   `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time   `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for ProjectApplication
func (ProjectApplication) TableName() string {
	return "project_applications"
}

// StatusLabel exposes the shared presentation mapping.
func (a *ProjectApplication) StatusLabel() string {
	return a.Status.Label()
}
