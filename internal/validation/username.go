// Package validation contains input format rules shared by services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_-]{3,24}$`)

// reservedUsernames are names that collide with routes or visitor-facing
// labels and may never be claimed as an admin identity. The bootstrap "admin"
// account is created by seeding, not signup, so it is reserved here too.
var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"anon":     {},
	"api":      {},
	"auth":     {},
	"health":   {},
	"messages": {},
	"metrics":  {},
	"profile":  {},
	"replies":  {},
	"login":    {},
	"signup":   {},
}

// ValidateUsername checks admin username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-24 characters and contain only lowercase letters, numbers, hyphens, and underscores")
	}

	if strings.HasPrefix(username, "-") || strings.HasSuffix(username, "-") {
		return fmt.Errorf("username cannot start or end with a hyphen")
	}

	if _, exists := reservedUsernames[username]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}
