package service

import (
	"context"
	"testing"

	"fanboard/internal/models"
	"fanboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn            func(context.Context, *models.Message) error
	getByIDFn           func(context.Context, uint) (*models.Message, error)
	listFn              func(context.Context, repository.MessageOrder) ([]*models.Message, error)
	deleteFn            func(context.Context, uint) error
	setPinnedFn         func(context.Context, uint, bool) error
	incrementReactionFn func(context.Context, uint, string) (int64, error)
	reactionCountsFn    func(context.Context, uint) (map[string]int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) List(ctx context.Context, order repository.MessageOrder) ([]*models.Message, error) {
	return s.listFn(ctx, order)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *messageRepoStub) IncrementReaction(ctx context.Context, id uint, emoji string) (int64, error) {
	return s.incrementReactionFn(ctx, id, emoji)
}
func (s *messageRepoStub) ReactionCounts(ctx context.Context, id uint) (map[string]int64, error) {
	return s.reactionCountsFn(ctx, id)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:  func(_ context.Context, _ *models.Message) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Message, error) { return &models.Message{}, nil },
		listFn: func(_ context.Context, _ repository.MessageOrder) ([]*models.Message, error) {
			return nil, nil
		},
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
		setPinnedFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		incrementReactionFn: func(_ context.Context, _ uint, _ string) (int64, error) {
			return 1, nil
		},
		reactionCountsFn: func(_ context.Context, _ uint) (map[string]int64, error) {
			return map[string]int64{}, nil
		},
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn        func(context.Context, *models.Reply) error
	getByIDFn       func(context.Context, uint) (*models.Reply, error)
	listByMessageFn func(context.Context, uint) ([]*models.Reply, error)
	updateTextFn    func(context.Context, uint, string) error
	deleteFn        func(context.Context, uint) error
}

func (s *replyRepoStub) Create(ctx context.Context, r *models.Reply) error {
	return s.createFn(ctx, r)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListByMessage(ctx context.Context, messageID uint) ([]*models.Reply, error) {
	return s.listByMessageFn(ctx, messageID)
}
func (s *replyRepoStub) UpdateText(ctx context.Context, id uint, text string) error {
	return s.updateTextFn(ctx, id, text)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:        func(_ context.Context, _ *models.Reply) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Reply, error) { return &models.Reply{}, nil },
		listByMessageFn: func(_ context.Context, _ uint) ([]*models.Reply, error) { return nil, nil },
		updateTextFn:    func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// adminRepoStub is a stub for repository.AdminRepository.
type adminRepoStub struct {
	createFn        func(context.Context, *models.Admin) error
	getByUsernameFn func(context.Context, string) (*models.Admin, error)
	authenticateFn  func(context.Context, string, string) (*models.Admin, bool, error)
	updateProfileFn func(context.Context, string, string, string) error
}

func (s *adminRepoStub) Create(ctx context.Context, a *models.Admin) error {
	return s.createFn(ctx, a)
}
func (s *adminRepoStub) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *adminRepoStub) Authenticate(ctx context.Context, username, secret string) (*models.Admin, bool, error) {
	return s.authenticateFn(ctx, username, secret)
}
func (s *adminRepoStub) UpdateProfile(ctx context.Context, username, bio, avatarRef string) error {
	return s.updateProfileFn(ctx, username, bio, avatarRef)
}

func noopAdminRepo() *adminRepoStub {
	return &adminRepoStub{
		createFn: func(_ context.Context, _ *models.Admin) error { return nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.Admin, error) {
			return &models.Admin{Username: username, DisplayName: username}, nil
		},
		authenticateFn: func(_ context.Context, username, _ string) (*models.Admin, bool, error) {
			return &models.Admin{Username: username}, true, nil
		},
		updateProfileFn: func(_ context.Context, _, _, _ string) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
}
