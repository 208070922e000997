package server

import (
	"fanboard/internal/models"
	"fanboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createReplyRequest struct {
	ParentReplyID *uint  `json:"parent_reply_id"`
	Nickname      string `json:"nickname"`
	Text          string `json:"text"`
}

type updateReplyRequest struct {
	Text string `json:"text"`
}

// CreateReply attaches a reply to a message.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.boardService.CreateReply(c.UserContext(), sessionFromCtx(c), service.CreateReplyInput{
		MessageID:     messageID,
		ParentReplyID: req.ParentReplyID,
		Nickname:      req.Nickname,
		Text:          req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// ListReplies returns all replies for a message in creation order.
func (s *Server) ListReplies(c *fiber.Ctx) error {
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.boardService.ListReplies(c.UserContext(), messageID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(replies)
}

// UpdateReply edits a reply's text.
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	if err := s.boardService.UpdateReply(c.UserContext(), sessionFromCtx(c), id, req.Text); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"id": id, "text": req.Text})
}

// DeleteReply removes a single reply.
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.boardService.DeleteReply(c.UserContext(), sessionFromCtx(c), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
