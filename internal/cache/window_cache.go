package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"unihelp/internal/session"
)

// WindowCache snapshots each chat session's conversation window to Redis so
// context survives a process restart. It is strictly best-effort: callers
// treat every error as a cache miss.
type WindowCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewWindowCache(client *redisv9.Client, ttl time.Duration) *WindowCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &WindowCache{client: client, ttl: ttl}
}

func (c *WindowCache) Get(ctx context.Context, sessionID uint) (session.State, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redisv9.Nil {
		return session.State{}, false, nil
	}
	if err != nil {
		return session.State{}, false, fmt.Errorf("redis get window failed: %w", err)
	}

	var state session.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return session.State{}, false, fmt.Errorf("unmarshal cached window failed: %w", err)
	}
	return state, true, nil
}

func (c *WindowCache) Set(ctx context.Context, state session.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal window failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(state.SessionID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set window failed: %w", err)
	}
	return nil
}

func (c *WindowCache) Delete(ctx context.Context, sessionID uint) error {
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete window failed: %w", err)
	}
	return nil
}

func (c *WindowCache) key(sessionID uint) string {
	return fmt.Sprintf("chat:window:%d", sessionID)
}
