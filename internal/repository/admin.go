package repository

import (
	"context"
	"errors"
	"strings"

	"fanboard/internal/cache"
	"fanboard/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines persistence operations for administrator identities.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	// Authenticate compares the stored secret with the supplied one. A
	// mismatch is a result (nil, false, nil), not an error.
	Authenticate(ctx context.Context, username, secret string) (*models.Admin, bool, error)
	UpdateProfile(ctx context.Context, username, bio, avatarRef string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a new AdminRepository implementation.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if strings.TrimSpace(admin.Username) == "" || admin.Secret == "" {
		return models.NewValidationError("Username and secret are required")
	}
	if admin.DisplayName == "" {
		admin.DisplayName = admin.Username
	}

	err := withRetry(ctx, "admin_create", func() error {
		return r.db.WithContext(ctx).Create(admin).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Admin username already exists")
		}
		return wrapStorageErr(err)
	}
	return nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	key := cache.AdminKey(username)

	err := cache.Aside(ctx, key, &admin, cache.AdminTTL, func() error {
		if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Admin", username)
			}
			return wrapStorageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Authenticate(ctx context.Context, username, secret string) (*models.Admin, bool, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, wrapStorageErr(err)
	}

	// Plaintext comparison, preserved from the board this service replaces.
	if admin.Secret != secret {
		return nil, false, nil
	}
	return &admin, true, nil
}

func (r *adminRepository) UpdateProfile(ctx context.Context, username, bio, avatarRef string) error {
	err := withRetry(ctx, "admin_update_profile", func() error {
		updates := map[string]interface{}{"bio": bio}
		if avatarRef != "" {
			updates["avatar_ref"] = avatarRef
		}
		result := r.db.WithContext(ctx).
			Model(&models.Admin{}).
			Where("username = ?", username).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Admin", username)
		}
		return nil
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.InvalidateAdmin(ctx, username)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// SQLite reports "UNIQUE constraint failed: admins.username"
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}
