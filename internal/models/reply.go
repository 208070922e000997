package models

import (
	"time"
)

// Reply represents a response attached to a message. AuthorName is an admin
// username for admin replies or a free-form visitor nickname for comments.
// ParentReplyID enables one level of nesting (admin reply to a visitor comment).
type Reply struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MessageID     uint      `gorm:"not null;index" json:"message_id"`
	ParentReplyID *uint     `gorm:"index" json:"parent_reply_id,omitempty"`
	AuthorName    string    `json:"author_name"`
	FromAdmin     bool      `gorm:"not null;default:false" json:"from_admin"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Message Message `gorm:"foreignKey:MessageID" json:"-"`
}
