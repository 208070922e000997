// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Message represents a top-level board message posted by an anonymous visitor.
// Attachments are opaque references resolved by an external file store; the
// backend never interprets their bytes.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorLabel string    `json:"author_label,omitempty"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageRef    string    `json:"image_ref,omitempty"`
	AudioRef    string    `json:"audio_ref,omitempty"`
	Pinned      bool      `gorm:"not null;default:false;index" json:"pinned"`
	CreatedAt   time.Time `json:"created_at"`

	Replies []Reply `gorm:"foreignKey:MessageID" json:"replies,omitempty"`
	// ReactionCounts is not persisted on this row; populated from the
	// reaction_counts table at query time.
	ReactionCounts map[string]int64 `gorm:"-" json:"reaction_counts,omitempty"`
}

// HasAttachment reports whether the message carries an image or audio reference.
func (m *Message) HasAttachment() bool {
	return m.ImageRef != "" || m.AudioRef != ""
}
