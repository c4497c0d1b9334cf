package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// Cached layers a redis cache over another Store. Cache misses and redis
// failures fall through to the inner store, so redis stays optional.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCached(inner Store, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl}
}

func cacheKey(sessionID string) string {
	return "chat:session:" + sessionID
}

func (c *Cached) Create(ctx context.Context, sess *models.ChatSession) error {
	if err := c.inner.Create(ctx, sess); err != nil {
		return err
	}
	c.set(ctx, sess)
	return nil
}

func (c *Cached) Get(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	val, err := c.client.Get(ctx, cacheKey(sessionID)).Result()
	if err == nil {
		var sess models.ChatSession
		if err := json.Unmarshal([]byte(val), &sess); err == nil {
			return &sess, nil
		}
	}

	sess, err := c.inner.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, sess)
	return sess, nil
}

func (c *Cached) Touch(ctx context.Context, sessionID string) error {
	if err := c.inner.Touch(ctx, sessionID); err != nil {
		return err
	}
	// stale count is harmless; drop the entry and let the next Get refill
	if err := c.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		slog.Debug("session cache invalidate failed", "session_id", sessionID, "error", err)
	}
	return nil
}

func (c *Cached) set(ctx context.Context, sess *models.ChatSession) {
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(sess.SessionID), data, c.ttl).Err(); err != nil {
		slog.Debug("session cache set failed", "session_id", sess.SessionID, "error", err)
	}
}
