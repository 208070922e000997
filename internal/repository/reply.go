package repository

import (
	"context"
	"errors"
	"strings"

	"fanboard/internal/cache"
	"fanboard/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByMessage(ctx context.Context, messageID uint) ([]*models.Reply, error)
	UpdateText(ctx context.Context, id uint, text string) error
	Delete(ctx context.Context, id uint) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository returns a new ReplyRepository implementation.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// Create inserts a reply after verifying its message (and parent reply, when
// nested) exist. Nesting is limited to one level: the parent must itself be a
// top-level reply on the same message.
func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	reply.Text = strings.TrimSpace(reply.Text)
	if reply.Text == "" {
		return models.NewValidationError("Reply text is required")
	}

	err := withRetry(ctx, "reply_create", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var exists int64
			if err := tx.Model(&models.Message{}).Where("id = ?", reply.MessageID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return models.NewNotFoundError("Message", reply.MessageID)
			}

			if reply.ParentReplyID != nil {
				var parent models.Reply
				if err := tx.First(&parent, *reply.ParentReplyID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return models.NewNotFoundError("Reply", *reply.ParentReplyID)
					}
					return err
				}
				if parent.MessageID != reply.MessageID {
					return models.NewValidationError("Parent reply belongs to a different message")
				}
				if parent.ParentReplyID != nil {
					return models.NewValidationError("Replies may only be nested one level deep")
				}
			}

			return tx.Create(reply).Error
		})
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.Invalidate(ctx, cache.MessageKey(reply.MessageID))
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, wrapStorageErr(err)
	}
	return &reply, nil
}

func (r *replyRepository) ListByMessage(ctx context.Context, messageID uint) ([]*models.Reply, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", messageID).Count(&exists).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	if exists == 0 {
		return nil, models.NewNotFoundError("Message", messageID)
	}

	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	return replies, nil
}

func (r *replyRepository) UpdateText(ctx context.Context, id uint, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NewValidationError("Reply text is required")
	}

	var messageID uint
	err := withRetry(ctx, "reply_update", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var reply models.Reply
			if err := tx.First(&reply, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Reply", id)
				}
				return err
			}
			messageID = reply.MessageID
			return tx.Model(&reply).Update("text", text).Error
		})
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.Invalidate(ctx, cache.MessageKey(messageID))
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id uint) error {
	var messageID uint
	err := withRetry(ctx, "reply_delete", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var reply models.Reply
			if err := tx.First(&reply, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Reply", id)
				}
				return err
			}
			messageID = reply.MessageID
			// Nested children go with their parent so no orphans remain.
			if err := tx.Where("parent_reply_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Reply{}, id).Error
		})
	})
	if err != nil {
		return wrapStorageErr(err)
	}

	cache.Invalidate(ctx, cache.MessageKey(messageID))
	return nil
}
