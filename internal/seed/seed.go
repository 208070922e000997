// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"fanboard/internal/middleware"
	"fanboard/internal/models"
	"fanboard/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// EnsureBootstrapAdmin inserts the default admin account when no admin rows
// exist yet. A fresh store is always loginable as admin/1234.
func EnsureBootstrapAdmin(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin := &models.Admin{
		Username:    models.BootstrapAdminUsername,
		Secret:      models.BootstrapAdminSecret,
		DisplayName: "Administrator",
		Bio:         "Welcome to the board!",
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	middleware.Logger.Info("Seeded bootstrap admin", slog.String("username", admin.Username))
	return nil
}

// Fixture is the YAML shape for pre-populating the board with content.
type Fixture struct {
	Messages []FixtureMessage `yaml:"messages"`
}

// FixtureMessage describes one seeded message and its replies.
type FixtureMessage struct {
	AuthorLabel string   `yaml:"author_label"`
	Text        string   `yaml:"text"`
	ImageRef    string   `yaml:"image_ref"`
	AudioRef    string   `yaml:"audio_ref"`
	Pinned      bool     `yaml:"pinned"`
	Replies     []string `yaml:"replies"`
}

// LoadFixture reads a YAML fixture file and inserts its messages through the
// repository layer so all validation and invariants apply.
func LoadFixture(ctx context.Context, db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed fixture: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("failed to parse seed fixture: %w", err)
	}

	messageRepo := repository.NewMessageRepository(db)
	replyRepo := repository.NewReplyRepository(db)

	for _, fm := range fixture.Messages {
		message := &models.Message{
			AuthorLabel: fm.AuthorLabel,
			Text:        fm.Text,
			ImageRef:    fm.ImageRef,
			AudioRef:    fm.AudioRef,
		}
		if err := messageRepo.Create(ctx, message); err != nil {
			return fmt.Errorf("failed to seed message %q: %w", fm.Text, err)
		}
		if fm.Pinned {
			if err := messageRepo.SetPinned(ctx, message.ID, true); err != nil {
				return err
			}
		}
		for _, text := range fm.Replies {
			reply := &models.Reply{
				MessageID:  message.ID,
				AuthorName: models.BootstrapAdminUsername,
				FromAdmin:  true,
				Text:       text,
			}
			if err := replyRepo.Create(ctx, reply); err != nil {
				return fmt.Errorf("failed to seed reply on message %d: %w", message.ID, err)
			}
		}
	}

	middleware.Logger.Info("Seeded fixture", slog.String("path", path), slog.Int("messages", len(fixture.Messages)))
	return nil
}

// DemoData fills an empty board with generated visitor messages, reactions,
// and admin replies for local development.
func DemoData(ctx context.Context, db *gorm.DB, numMessages int) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Message{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	gofakeit.Seed(0)

	messageRepo := repository.NewMessageRepository(db)
	replyRepo := repository.NewReplyRepository(db)

	for i := 0; i < numMessages; i++ {
		message := &models.Message{
			AuthorLabel: gofakeit.Username(),
			Text:        gofakeit.Sentence(8 + rand.Intn(10)),
		}
		// Roughly one in four demo messages carries an attachment reference.
		if rand.Intn(4) == 0 {
			message.ImageRef = fmt.Sprintf("uploads/%s.png", uuid.NewString())
		}
		if err := messageRepo.Create(ctx, message); err != nil {
			return err
		}

		for _, emoji := range models.DefaultEmojis {
			for n := rand.Intn(5); n > 0; n-- {
				if _, err := messageRepo.IncrementReaction(ctx, message.ID, emoji); err != nil {
					return err
				}
			}
		}

		if rand.Intn(2) == 0 {
			reply := &models.Reply{
				MessageID:  message.ID,
				AuthorName: models.BootstrapAdminUsername,
				FromAdmin:  true,
				Text:       gofakeit.Sentence(6),
			}
			if err := replyRepo.Create(ctx, reply); err != nil {
				return err
			}
		}
	}

	middleware.Logger.Info("Seeded demo data", slog.Int("messages", numMessages))
	return nil
}
