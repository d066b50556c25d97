package models

import "time"

// MemberRegistration represents the member_registrations table. An enterprise
// fills the registration wizard as a draft, submits it and an admin reviews it.
type MemberRegistration struct {
	RegistrationID             uint    `gorm:"primaryKey;column:registration_id" json:"registration_id"`
	UserID                     uint    `gorm:"column:user_id" json:"user_id"`
	RegistrationNumber         string  `gorm:"column:registration_number" json:"registration_number"`
	CompanyName                string  `gorm:"column:company_name" json:"company_name"`
	BusinessRegistrationNumber string  `gorm:"column:business_registration_number" json:"business_registration_number"`
	RepresentativeName         string  `gorm:"column:representative_name" json:"representative_name"`
	BusinessType               *string `gorm:"column:business_type" json:"business_type,omitempty"`
	Address                    *string `gorm:"column:address" json:"address,omitempty"`
	ContactPhone               *string `gorm:"column:contact_phone" json:"contact_phone,omitempty"`
	ContactEmail               *string `gorm:"column:contact_email" json:"contact_email,omitempty"`
	EmployeeCount              *int    `gorm:"column:employee_count" json:"employee_count,omitempty"`
	AnnualRevenue              *float64 `gorm:"column:annual_revenue" json:"annual_revenue,omitempty"`
	Introduction               *string `gorm:"column:introduction" json:"introduction,omitempty"`

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

// TableName overrides the table name for MemberRegistration
func (MemberRegistration) TableName() string {
	return "member_registrations"
}

// StatusLabel exposes the shared presentation mapping.
func (m *MemberRegistration) StatusLabel() string {
	return m.Status.Label()
}

// Complete reports whether the payload is filled enough to submit.
func (m *MemberRegistration) Complete() bool {
	return m.CompanyName != "" &&
		m.BusinessRegistrationNumber != "" &&
		m.RepresentativeName != ""
}
