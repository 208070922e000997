package repository

import (
	"context"
	"sync"
	"testing"

	"fanboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		message     models.Message
		expectError bool
	}{
		{
			name:    "text only",
			message: models.Message{AuthorLabel: "visitor", Text: "hello board"},
		},
		{
			name:    "image only",
			message: models.Message{ImageRef: "uploads/pic.png"},
		},
		{
			name:    "audio only",
			message: models.Message{AudioRef: "uploads/clip.ogg"},
		},
		{
			name:        "empty",
			message:     models.Message{},
			expectError: true,
		},
		{
			name:        "whitespace text and no attachment",
			message:     models.Message{Text: "   \n\t "},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &tt.message)
			if tt.expectError {
				assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.message.ID)
		})
	}
}

func TestMessageRepository_List_PinnedFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Message{Text: text}))
	}

	// Pin the newest message; it must jump ahead of the older unpinned ones.
	messages, err := repo.List(ctx, OrderCreatedAsc)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.NoError(t, repo.SetPinned(ctx, messages[2].ID, true))

	pinnedFirst, err := repo.List(ctx, OrderPinnedFirst)
	require.NoError(t, err)
	require.Len(t, pinnedFirst, 3)
	assert.Equal(t, "third", pinnedFirst[0].Text)
	assert.Equal(t, "first", pinnedFirst[1].Text)
	assert.Equal(t, "second", pinnedFirst[2].Text)

	newestFirst, err := repo.List(ctx, OrderCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, "third", newestFirst[0].Text)
}

func TestMessageRepository_SetPinned(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "pin me"}
	require.NoError(t, repo.Create(ctx, &message))

	require.NoError(t, repo.SetPinned(ctx, message.ID, true))
	// Re-applying the same value is a no-op, not an error.
	require.NoError(t, repo.SetPinned(ctx, message.ID, true))

	got, err := repo.GetByID(ctx, message.ID)
	require.NoError(t, err)
	assert.True(t, got.Pinned)

	require.NoError(t, repo.SetPinned(ctx, message.ID, false))
	got, err = repo.GetByID(ctx, message.ID)
	require.NoError(t, err)
	assert.False(t, got.Pinned)

	err = repo.SetPinned(ctx, 9999, true)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestMessageRepository_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	messageRepo := NewMessageRepository(db)
	replyRepo := NewReplyRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "doomed"}
	require.NoError(t, messageRepo.Create(ctx, &message))

	reply := models.Reply{MessageID: message.ID, AuthorName: "anon", Text: "me too"}
	require.NoError(t, replyRepo.Create(ctx, &reply))

	_, err := messageRepo.IncrementReaction(ctx, message.ID, "👍")
	require.NoError(t, err)

	require.NoError(t, messageRepo.Delete(ctx, message.ID))

	_, err = messageRepo.GetByID(ctx, message.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	var replyCount, reactionCount int64
	require.NoError(t, db.Model(&models.Reply{}).Where("message_id = ?", message.ID).Count(&replyCount).Error)
	require.NoError(t, db.Model(&models.ReactionCount{}).Where("message_id = ?", message.ID).Count(&reactionCount).Error)
	assert.Zero(t, replyCount)
	assert.Zero(t, reactionCount)

	err = messageRepo.Delete(ctx, message.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestMessageRepository_IncrementReaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "react to me"}
	require.NoError(t, repo.Create(ctx, &message))

	for i := int64(1); i <= 5; i++ {
		count, err := repo.IncrementReaction(ctx, message.ID, "❤️")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err := repo.IncrementReaction(ctx, message.ID, "😂")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	counts, err := repo.ReactionCounts(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"❤️": 5, "😂": 1}, counts)

	_, err = repo.IncrementReaction(ctx, 9999, "❤️")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = repo.IncrementReaction(ctx, message.ID, "   ")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestMessageRepository_IncrementReaction_Concurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "popular"}
	require.NoError(t, repo.Create(ctx, &message))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementReaction(ctx, message.ID, "👍")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	counts, err := repo.ReactionCounts(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), counts["👍"])
}

func TestMessageRepository_ReactionCounts_EmptyWhenUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "quiet"}
	require.NoError(t, repo.Create(ctx, &message))

	counts, err := repo.ReactionCounts(ctx, message.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestMessageRepository_GetByID_AttachesRepliesAndCounts(t *testing.T) {
	db := newTestDB(t)
	messageRepo := NewMessageRepository(db)
	replyRepo := NewReplyRepository(db)
	ctx := context.Background()

	message := models.Message{Text: "full view"}
	require.NoError(t, messageRepo.Create(ctx, &message))

	first := models.Reply{MessageID: message.ID, AuthorName: "anon", Text: "one"}
	require.NoError(t, replyRepo.Create(ctx, &first))
	second := models.Reply{MessageID: message.ID, AuthorName: "admin", FromAdmin: true, Text: "two"}
	require.NoError(t, replyRepo.Create(ctx, &second))

	_, err := messageRepo.IncrementReaction(ctx, message.ID, "😮")
	require.NoError(t, err)

	got, err := messageRepo.GetByID(ctx, message.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, "one", got.Replies[0].Text)
	assert.Equal(t, "two", got.Replies[1].Text)
	assert.Equal(t, int64(1), got.ReactionCounts["😮"])
}
