package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fanboard/internal/database"
	"fanboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureBootstrapAdmin(ctx, db))

	var admin models.Admin
	require.NoError(t, db.Where("username = ?", models.BootstrapAdminUsername).First(&admin).Error)
	assert.Equal(t, models.BootstrapAdminSecret, admin.Secret)

	// Idempotent: a second call must not add another admin row.
	require.NoError(t, EnsureBootstrapAdmin(ctx, db))
	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureBootstrapAdmin_SkipsWhenAdminExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Admin{Username: "existing", Secret: "pw", DisplayName: "Existing"}).Error)
	require.NoError(t, EnsureBootstrapAdmin(ctx, db))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoadFixture(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fixture := `messages:
  - author_label: superfan
    text: "Pinned welcome post"
    pinned: true
    replies:
      - "Glad you are here!"
  - author_label: visitor
    text: "Just passing by"
    image_ref: uploads/wave.png
`
	path := filepath.Join(t.TempDir(), "fixture.yml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	require.NoError(t, LoadFixture(ctx, db, path))

	var messages []models.Message
	require.NoError(t, db.Order("id ASC").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.True(t, messages[0].Pinned)
	assert.Equal(t, "uploads/wave.png", messages[1].ImageRef)

	var replies []models.Reply
	require.NoError(t, db.Where("message_id = ?", messages[0].ID).Find(&replies).Error)
	require.Len(t, replies, 1)
	assert.True(t, replies[0].FromAdmin)
}

func TestLoadFixture_MissingFile(t *testing.T) {
	db := newTestDB(t)
	err := LoadFixture(context.Background(), db, filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDemoData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, DemoData(ctx, db, 5))

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)

	// A non-empty board is left alone.
	require.NoError(t, DemoData(ctx, db, 50))
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}
