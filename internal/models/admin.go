package models

import (
	"time"
)

// Admin represents a privileged board identity able to reply, delete, and pin.
// Secrets are stored and compared as plain text, matching the legacy board this
// service replaces. Hardening the credential flow is explicitly out of scope.
type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"unique;not null" json:"username"`
	Secret      string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bootstrap credentials seeded into a fresh store.
const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminSecret   = "1234"
)

// Session is the capability a caller presents when invoking operations that
// require authorization. A zero Session is an anonymous visitor.
type Session struct {
	AdminUsername string
}

// IsAdmin reports whether the session belongs to an authenticated admin.
func (s Session) IsAdmin() bool {
	return s.AdminUsername != ""
}
