package models

// ReactionCount is the aggregate counter for one emoji on one message.
// At most one row exists per (message, emoji) pair; the count only grows.
// Reactions are intentionally not deduplicated per visitor.
type ReactionCount struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	MessageID uint   `gorm:"not null;uniqueIndex:idx_message_emoji" json:"message_id"`
	Emoji     string `gorm:"not null;size:16;uniqueIndex:idx_message_emoji" json:"emoji"`
	Count     int64  `gorm:"not null;default:0" json:"count"`
}

// DefaultEmojis is the reaction palette the board UI offers. The store itself
// accepts any emoji string.
var DefaultEmojis = []string{"❤️", "😂", "😮", "😢", "👍"}
