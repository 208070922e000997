package server

import (
	"log/slog"

	"fanboard/internal/middleware"
	"fanboard/internal/models"
	"fanboard/internal/repository"
	"fanboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postMessageRequest struct {
	AuthorLabel string `json:"author_label"`
	Text        string `json:"text"`
	ImageRef    string `json:"image_ref"`
	AudioRef    string `json:"audio_ref"`
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

type reactRequest struct {
	Emoji string `json:"emoji"`
}

// orderFromQuery maps the ?order= query parameter onto a listing order.
// Unknown values fall back to the pinned-first default.
func orderFromQuery(c *fiber.Ctx) repository.MessageOrder {
	switch c.Query("order") {
	case "created_asc":
		return repository.OrderCreatedAsc
	case "created_desc":
		return repository.OrderCreatedDesc
	default:
		return repository.OrderPinnedFirst
	}
}

// ListMessages returns a fresh snapshot of the board.
func (s *Server) ListMessages(c *fiber.Ctx) error {
	messages, err := s.boardService.ListMessages(c.UserContext(), orderFromQuery(c))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(messages)
}

// PostMessage accepts a visitor message.
func (s *Server) PostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	message, err := s.boardService.PostMessage(c.UserContext(), service.PostMessageInput{
		AuthorLabel: req.AuthorLabel,
		Text:        req.Text,
		ImageRef:    req.ImageRef,
		AudioRef:    req.AudioRef,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "Message posted", slog.Uint64("id", uint64(message.ID)))
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessage returns one message with its replies and reaction counts.
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.boardService.GetMessage(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(message)
}

// DeleteMessage removes a message with all its replies and reactions.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.boardService.DeleteMessage(c.UserContext(), sessionFromCtx(c), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "Message deleted", slog.Uint64("id", uint64(id)))
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPinned pins or unpins a message.
func (s *Server) SetPinned(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	if err := s.boardService.SetPinned(c.UserContext(), sessionFromCtx(c), id, req.Pinned); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"id": id, "pinned": req.Pinned})
}

// React increments one emoji counter and returns the new count.
func (s *Server) React(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req reactRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	count, err := s.boardService.React(c.UserContext(), id, req.Emoji)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"message_id": id, "emoji": req.Emoji, "count": count})
}

// GetReactionCounts returns the per-emoji counters for one message.
func (s *Server) GetReactionCounts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.boardService.ReactionCounts(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(counts)
}
