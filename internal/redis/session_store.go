package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinova/clinic-ops/internal/session"
)

// SessionStores hands out a per-client token store, the server-side stand-in
// for the browser's local storage. Keys carry a retention TTL purely as
// cleanup; session expiry itself is observed lazily by the session manager.
type SessionStores struct {
	client    *redis.Client
	retention time.Duration
}

func NewSessionStores(client *redis.Client, retention time.Duration) *SessionStores {
	return &SessionStores{
		client:    client,
		retention: retention,
	}
}

func (s *SessionStores) ForClient(clientID string) session.TokenStore {
	return &clientStore{
		client:    s.client,
		clientID:  clientID,
		retention: s.retention,
	}
}

type clientStore struct {
	client    *redis.Client
	clientID  string
	retention time.Duration
}

func (c *clientStore) tokenKey() string {
	return fmt.Sprintf("session:%s:token", c.clientID)
}

func (c *clientStore) identityKey() string {
	return fmt.Sprintf("session:%s:identity", c.clientID)
}

func (c *clientStore) Save(ctx context.Context, token string, snapshot session.Identity) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal identity snapshot: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.tokenKey(), token, c.retention)
	pipe.Set(ctx, c.identityKey(), data, c.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (c *clientStore) Load(ctx context.Context) (string, *session.Identity, error) {
	token, err := c.client.Get(ctx, c.tokenKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, session.ErrNoSession
		}
		return "", nil, fmt.Errorf("load session token: %w", err)
	}

	// A missing or corrupt snapshot degrades to token-only; the manager
	// treats that as an anonymous restore.
	data, err := c.client.Get(ctx, c.identityKey()).Bytes()
	if err != nil {
		return token, nil, nil
	}
	var snapshot session.Identity
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return token, nil, nil
	}

	return token, &snapshot, nil
}

func (c *clientStore) Clear(ctx context.Context) error {
	// DEL on absent keys succeeds, which keeps logout idempotent.
	if err := c.client.Del(ctx, c.tokenKey(), c.identityKey()).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
