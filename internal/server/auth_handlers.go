package server

import (
	"log/slog"

	"fanboard/internal/middleware"
	"fanboard/internal/models"
	"fanboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
}

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type profileUpdateRequest struct {
	Bio       string `json:"bio"`
	AvatarRef string `json:"avatar_ref"`
}

// Signup creates a new admin account.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	admin, err := s.identityService.Signup(c.UserContext(), service.SignupInput{
		Username:    req.Username,
		Secret:      req.Secret,
		DisplayName: req.DisplayName,
		AvatarRef:   req.AvatarRef,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "Admin account created", slog.String("username", admin.Username))
	return c.Status(fiber.StatusCreated).JSON(admin)
}

// Login authenticates an admin and returns a bearer token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	admin, token, err := s.identityService.Login(c.UserContext(), req.Username, req.Secret)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "Admin logged in", slog.String("username", admin.Username))
	return c.JSON(fiber.Map{
		"token": token,
		"admin": admin,
	})
}

// GetProfile returns the public profile for one admin.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	admin, err := s.identityService.GetProfile(c.UserContext(), username)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(admin)
}

// UpdateProfile edits the authenticated admin's bio and avatar.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	admin, err := s.identityService.UpdateProfile(c.UserContext(), sessionFromCtx(c), req.Bio, req.AvatarRef)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(admin)
}
