package models

import "time"

// MessageThread represents the message_threads table. A member opens a
// consultation thread; admins reply and close it when resolved.
type MessageThread struct {
	ThreadID uint    `gorm:"primaryKey;column:thread_id" json:"thread_id"`
	UserID   uint    `gorm:"column:user_id" json:"user_id"`
	Subject  string  `gorm:"column:subject" json:"subject"`
	Category *string `gorm:"column:category" json:"category,omitempty"`

	Status   ThreadStatus `gorm:"column:status" json:"status"`
	ClosedAt *time.Time   `gorm:"column:closed_at" json:"closed_at,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User     User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []ThreadMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

// TableName overrides the table name for MessageThread
func (MessageThread) TableName() string {
	return "message_threads"
}

// StatusLabel exposes the shared presentation mapping.
func (t *MessageThread) StatusLabel() string {
	return t.Status.Label()
}

// ThreadMessage represents the thread_messages table.
type ThreadMessage struct {
	MessageID uint      `gorm:"primaryKey;column:message_id" json:"message_id"`
	ThreadID  uint      `gorm:"column:thread_id" json:"thread_id"`
	SenderID  uint      `gorm:"column:sender_id" json:"sender_id"`
	Body      string    `gorm:"column:body" json:"body"`
	CreateAt  time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName overrides the table name for ThreadMessage
func (ThreadMessage) TableName() string {
	return "thread_messages"
}
