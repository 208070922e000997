package service

import (
	"context"
	"time"

	"fanboard/internal/models"
	"fanboard/internal/repository"
	"fanboard/internal/validation"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an admin session token stays valid.
const tokenTTL = 24 * time.Hour

// IdentityService handles admin signup, login, and profile updates.
type IdentityService struct {
	adminRepo repository.AdminRepository
	jwtSecret []byte
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(adminRepo repository.AdminRepository, jwtSecret string) *IdentityService {
	return &IdentityService{
		adminRepo: adminRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// SignupInput carries input for creating an admin account.
type SignupInput struct {
	Username    string
	Secret      string
	DisplayName string
	AvatarRef   string
}

// Signup creates a new admin account. Duplicate usernames surface as CONFLICT.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*models.Admin, error) {
	if in.Username == "" || in.Secret == "" || in.DisplayName == "" {
		return nil, models.NewValidationError("Username, secret, and display name are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	admin := &models.Admin{
		Username:    in.Username,
		Secret:      in.Secret,
		DisplayName: in.DisplayName,
		AvatarRef:   in.AvatarRef,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login authenticates an admin and issues a session token. A credential
// mismatch returns UNAUTHORIZED without revealing which part failed.
func (s *IdentityService) Login(ctx context.Context, username, secret string) (*models.Admin, string, error) {
	admin, ok, err := s.adminRepo.Authenticate(ctx, username, secret)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.issueToken(admin.Username)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return admin, token, nil
}

// UpdateProfile edits the session admin's own bio and avatar reference.
func (s *IdentityService) UpdateProfile(ctx context.Context, session models.Session, bio, avatarRef string) (*models.Admin, error) {
	if !session.IsAdmin() {
		return nil, models.NewUnauthorizedError("Admin session required")
	}
	if err := s.adminRepo.UpdateProfile(ctx, session.AdminUsername, bio, avatarRef); err != nil {
		return nil, err
	}
	return s.adminRepo.GetByUsername(ctx, session.AdminUsername)
}

// GetProfile returns the public profile for one admin.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*models.Admin, error) {
	return s.adminRepo.GetByUsername(ctx, username)
}

func (s *IdentityService) issueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
