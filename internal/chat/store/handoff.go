// Package store holds the redis-backed ephemeral storage of the chat module.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/chat/orchestrator"
)

const (
	handoffKeyPrefix = "chat:handoff:"
	handoffTTL       = 10 * time.Minute
)

// RedisHandoff is the one-shot slot carrying "discuss this" text from the
// chat widget to the contact form. Reads consume the value.
type RedisHandoff struct {
	client *redis.Client
}

func NewRedisHandoff(client *redis.Client) *RedisHandoff {
	return &RedisHandoff{client: client}
}

func (h *RedisHandoff) Put(ctx context.Context, sessionID, text string) error {
	if err := h.client.Set(ctx, handoffKeyPrefix+sessionID, text, handoffTTL).Err(); err != nil {
		return fmt.Errorf("handoff put: %w", err)
	}
	return nil
}

// Take pops the stored text. A missing or expired slot yields an empty
// string, not an error.
func (h *RedisHandoff) Take(ctx context.Context, sessionID string) (string, error) {
	text, err := h.client.GetDel(ctx, handoffKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("handoff take: %w", err)
	}
	return text, nil
}

var _ orchestrator.HandoffStore = (*RedisHandoff)(nil)
