// Package service contains the application's business logic on top of the
// repository layer. Authorization is decided from an explicit Session value
// passed per call; the services keep no login state of their own.
package service

import (
	"context"

	"fanboard/internal/models"
	"fanboard/internal/observability"
	"fanboard/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxMessageLen  = 4000
	maxReplyLen    = 2000
	maxNicknameLen = 60
	maxEmojiLen    = 16

	// anonymousAuthor labels visitor replies posted without a nickname.
	anonymousAuthor = "anon"
)

// BoardService coordinates messages, replies, and reactions.
type BoardService struct {
	messageRepo repository.MessageRepository
	replyRepo   repository.ReplyRepository
	adminRepo   repository.AdminRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(
	messageRepo repository.MessageRepository,
	replyRepo repository.ReplyRepository,
	adminRepo repository.AdminRepository,
) *BoardService {
	return &BoardService{
		messageRepo: messageRepo,
		replyRepo:   replyRepo,
		adminRepo:   adminRepo,
	}
}

// PostMessageInput carries visitor input for a new board message.
type PostMessageInput struct {
	AuthorLabel string
	Text        string
	ImageRef    string
	AudioRef    string
}

// CreateReplyInput carries input for a new reply.
type CreateReplyInput struct {
	MessageID     uint
	ParentReplyID *uint
	Nickname      string
	Text          string
}

// requireAdmin resolves the session to a stored admin, rejecting anonymous or
// stale sessions.
func (s *BoardService) requireAdmin(ctx context.Context, session models.Session) (*models.Admin, error) {
	if !session.IsAdmin() {
		return nil, models.NewUnauthorizedError("Admin session required")
	}
	admin, err := s.adminRepo.GetByUsername(ctx, session.AdminUsername)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Admin session required")
		}
		return nil, err
	}
	return admin, nil
}

// PostMessage accepts a visitor message. Anyone may post; at least one of
// text, image, or audio must be present.
func (s *BoardService) PostMessage(ctx context.Context, in PostMessageInput) (*models.Message, error) {
	if len(in.Text) > maxMessageLen {
		return nil, models.NewValidationError("Message too long")
	}
	if len(in.AuthorLabel) > maxNicknameLen {
		return nil, models.NewValidationError("Author label too long")
	}

	message := &models.Message{
		AuthorLabel: in.AuthorLabel,
		Text:        in.Text,
		ImageRef:    in.ImageRef,
		AudioRef:    in.AudioRef,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns a fresh snapshot in the requested order.
func (s *BoardService) ListMessages(ctx context.Context, order repository.MessageOrder) ([]*models.Message, error) {
	return s.messageRepo.List(ctx, order)
}

// GetMessage returns one message with replies and reaction counts attached.
func (s *BoardService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// DeleteMessage removes a message and everything hanging off it. Admin only.
func (s *BoardService) DeleteMessage(ctx context.Context, session models.Session, id uint) error {
	span, ctx := observability.NewSpan(ctx, "board.delete_message")
	defer span.End()
	span.AddAttributes(attribute.Int("message.id", int(id)))

	if _, err := s.requireAdmin(ctx, session); err != nil {
		span.SetError(err)
		return err
	}
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// SetPinned pins or unpins a message. Admin only; idempotent.
func (s *BoardService) SetPinned(ctx context.Context, session models.Session, id uint, pinned bool) error {
	if _, err := s.requireAdmin(ctx, session); err != nil {
		return err
	}
	return s.messageRepo.SetPinned(ctx, id, pinned)
}

// React increments the (message, emoji) counter and returns the new count.
// Visitors may react without limit; dedup is intentionally not performed.
func (s *BoardService) React(ctx context.Context, messageID uint, emoji string) (int64, error) {
	if len(emoji) > maxEmojiLen {
		return 0, models.NewValidationError("Emoji too long")
	}

	span, ctx := observability.NewSpan(ctx, "board.react")
	defer span.End()
	span.AddAttributes(
		attribute.Int("message.id", int(messageID)),
		attribute.String("reaction.emoji", emoji),
	)

	count, err := s.messageRepo.IncrementReaction(ctx, messageID, emoji)
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	return count, nil
}

// ReactionCounts returns the per-emoji counters for one message. Emojis never
// reacted with are absent from the map.
func (s *BoardService) ReactionCounts(ctx context.Context, messageID uint) (map[string]int64, error) {
	return s.messageRepo.ReactionCounts(ctx, messageID)
}

// CreateReply attaches a reply to a message. Visitors comment under a
// nickname; admins reply under their identity. Nested replies (responses to a
// visitor comment) are reserved for admins.
func (s *BoardService) CreateReply(ctx context.Context, session models.Session, in CreateReplyInput) (*models.Reply, error) {
	if len(in.Text) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long")
	}
	if len(in.Nickname) > maxNicknameLen {
		return nil, models.NewValidationError("Nickname too long")
	}

	reply := &models.Reply{
		MessageID:     in.MessageID,
		ParentReplyID: in.ParentReplyID,
		Text:          in.Text,
	}

	if session.IsAdmin() {
		admin, err := s.requireAdmin(ctx, session)
		if err != nil {
			return nil, err
		}
		reply.AuthorName = admin.Username
		reply.FromAdmin = true
	} else {
		if in.ParentReplyID != nil {
			return nil, models.NewUnauthorizedError("Only admins may reply to a comment")
		}
		reply.AuthorName = in.Nickname
		if reply.AuthorName == "" {
			reply.AuthorName = anonymousAuthor
		}
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies returns all replies for a message in creation order.
func (s *BoardService) ListReplies(ctx context.Context, messageID uint) ([]*models.Reply, error) {
	return s.replyRepo.ListByMessage(ctx, messageID)
}

// UpdateReply edits a reply's text. Admin only.
func (s *BoardService) UpdateReply(ctx context.Context, session models.Session, id uint, text string) error {
	if _, err := s.requireAdmin(ctx, session); err != nil {
		return err
	}
	if len(text) > maxReplyLen {
		return models.NewValidationError("Reply too long")
	}
	return s.replyRepo.UpdateText(ctx, id, text)
}

// DeleteReply removes a single reply. Admin only.
func (s *BoardService) DeleteReply(ctx context.Context, session models.Session, id uint) error {
	if _, err := s.requireAdmin(ctx, session); err != nil {
		return err
	}
	return s.replyRepo.Delete(ctx, id)
}
