package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"fanboard/internal/cache"
	"fanboard/internal/models"
	"fanboard/internal/observability"

	"gorm.io/gorm"
)

// MessageOrder selects the ordering List applies. Callers pick one ordering
// and use it consistently.
type MessageOrder int

const (
	// OrderPinnedFirst sorts pinned messages ahead of the rest; within equal
	// pin status, oldest first.
	OrderPinnedFirst MessageOrder = iota
	// OrderCreatedAsc sorts by creation order, oldest first.
	OrderCreatedAsc
	// OrderCreatedDesc sorts by creation order, newest first.
	OrderCreatedDesc
)

// MessageRepository defines the interface for board message operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	List(ctx context.Context, order MessageOrder) ([]*models.Message, error)
	Delete(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	IncrementReaction(ctx context.Context, id uint, emoji string) (int64, error)
	ReactionCounts(ctx context.Context, id uint) (map[string]int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	message.Text = strings.TrimSpace(message.Text)
	if message.Text == "" && !message.HasAttachment() {
		return models.NewValidationError("Message requires text or an attachment")
	}

	defer observability.ObserveQuery("create", "messages", time.Now())

	err := withRetry(ctx, "message_create", func() error {
		return r.db.WithContext(ctx).Create(message).Error
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	observability.MessagesCreated.Inc()
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	key := cache.MessageKey(id)

	err := cache.Aside(ctx, key, &message, cache.MessageTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Replies", func(db *gorm.DB) *gorm.DB {
				return db.Order("id ASC")
			}).
			First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Message", id)
			}
			return wrapStorageErr(err)
		}
		counts, err := r.reactionCountsTx(r.db.WithContext(ctx), id)
		if err != nil {
			return err
		}
		message.ReactionCounts = counts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) List(ctx context.Context, order MessageOrder) ([]*models.Message, error) {
	defer observability.ObserveQuery("list", "messages", time.Now())

	query := r.db.WithContext(ctx).Model(&models.Message{})
	switch order {
	case OrderPinnedFirst:
		query = query.Order("pinned DESC, id ASC")
	case OrderCreatedDesc:
		query = query.Order("id DESC")
	default:
		query = query.Order("id ASC")
	}

	var messages []*models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	return messages, nil
}

// Delete removes the message together with its replies and reaction rows in a
// single transaction; either all three deletions commit or none are visible.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	defer observability.ObserveQuery("delete", "messages", time.Now())

	err := withRetry(ctx, "message_delete", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var message models.Message
			if err := tx.First(&message, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Message", id)
				}
				return err
			}
			if err := tx.Where("message_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id = ?", id).Delete(&models.ReactionCount{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Message{}, id).Error
		})
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.InvalidateMessage(ctx, id)
	return nil
}

// SetPinned is idempotent: re-applying the current value is a no-op.
func (r *messageRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	err := withRetry(ctx, "message_pin", func() error {
		result := r.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("id = ?", id).
			Update("pinned", pinned)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Message", id)
		}
		return nil
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.Invalidate(ctx, cache.MessageKey(id))
	return nil
}

// IncrementReaction upserts the (message, emoji) counter in a single atomic
// statement so concurrent callers never lose an increment.
func (r *messageRepository) IncrementReaction(ctx context.Context, id uint, emoji string) (int64, error) {
	if strings.TrimSpace(emoji) == "" {
		return 0, models.NewValidationError("Emoji is required")
	}

	defer observability.ObserveQuery("increment_reaction", "reaction_counts", time.Now())

	var newCount int64
	err := withRetry(ctx, "reaction_increment", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var exists int64
			if err := tx.Model(&models.Message{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return models.NewNotFoundError("Message", id)
			}

			if err := tx.Exec(
				`INSERT INTO reaction_counts (message_id, emoji, count) VALUES (?, ?, 1)
				 ON CONFLICT(message_id, emoji) DO UPDATE SET count = count + 1`,
				id, emoji,
			).Error; err != nil {
				return err
			}

			var row models.ReactionCount
			if err := tx.Where("message_id = ? AND emoji = ?", id, emoji).Take(&row).Error; err != nil {
				return err
			}
			newCount = row.Count
			return nil
		})
	})
	if err != nil {
		return 0, wrapStorageErr(err)
	}

	observability.ReactionsIncremented.WithLabelValues(emoji).Inc()
	cache.Invalidate(ctx, cache.ReactionsKey(id))
	cache.Invalidate(ctx, cache.MessageKey(id))
	return newCount, nil
}

func (r *messageRepository) ReactionCounts(ctx context.Context, id uint) (map[string]int64, error) {
	var counts map[string]int64
	key := cache.ReactionsKey(id)

	err := cache.Aside(ctx, key, &counts, cache.ReactionsTTL, func() error {
		var err error
		counts, err = r.reactionCountsTx(r.db.WithContext(ctx), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *messageRepository) reactionCountsTx(tx *gorm.DB, id uint) (map[string]int64, error) {
	var rows []models.ReactionCount
	if err := tx.Where("message_id = ?", id).Find(&rows).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Emoji] = row.Count
	}
	return counts, nil
}

// wrapStorageErr keeps AppErrors intact and classifies everything else as an
// internal storage failure.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
