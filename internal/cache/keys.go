package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	MessageKeyPrefix   = "message:%d"
	ReactionsKeyPrefix = "message:%d:reactions"
	AdminKeyPrefix     = "admin:%s"
)

const (
	MessageTTL   = 2 * time.Minute
	ReactionsTTL = 30 * time.Second
	AdminTTL     = 5 * time.Minute
)

func MessageKey(messageID uint) string {
	return fmt.Sprintf(MessageKeyPrefix, messageID)
}

func ReactionsKey(messageID uint) string {
	return fmt.Sprintf(ReactionsKeyPrefix, messageID)
}

func AdminKey(username string) string {
	return fmt.Sprintf(AdminKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateMessage(ctx context.Context, messageID uint) {
	Invalidate(ctx, MessageKey(messageID))
	Invalidate(ctx, ReactionsKey(messageID))
}

func InvalidateAdmin(ctx context.Context, username string) {
	Invalidate(ctx, AdminKey(username))
}
