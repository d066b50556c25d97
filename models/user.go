package models

import (
	"strings"
	"time"
)

// Role IDs as stored in the roles table.
const (
	RoleMember = 1
	RoleStaff  = 2
	RoleAdmin  = 3
)

type User struct {
	UserID    int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName string  `gorm:"column:first_name" json:"first_name"`
	LastName  string  `gorm:"column:last_name" json:"last_name"`
	Email     string  `gorm:"column:email;unique" json:"email"`
	Password  string  `gorm:"column:password" json:"-"`
	Phone     *string `gorm:"column:phone" json:"phone,omitempty"`
	RoleID    int     `gorm:"column:role_id" json:"role_id"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins first and last name for display and notification text.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
