package redis

import (
	"context"
	"fmt"
	"time"

	"flag-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// saveScript writes the session payload only when the sequence stamp is
// strictly newer than the stored one, so a stale writer (e.g. a second tab
// racing on the same slot) loses instead of clobbering fresher state.
var saveScript = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], 'seq') or '0')
if tonumber(ARGV[2]) <= cur then
  return 0
end
redis.call('HSET', KEYS[1], 'state', ARGV[1])
redis.call('HSET', KEYS[1], 'seq', ARGV[2])
if tonumber(ARGV[3]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// SessionStore is a Redis-backed implementation of game.SessionStore. Each
// player's session lives in one hash holding the serialized state and its
// sequence stamp, expiring after the configured TTL of inactivity.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, playerID string, state []byte, seq uint64) error {
	ok, err := saveScript.Run(ctx, s.client, []string{s.key(playerID)}, state, seq, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if ok == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, playerID string) ([]byte, error) {
	state, err := s.client.HGet(ctx, s.key(playerID), "state").Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return state, nil
}

func (s *SessionStore) Delete(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, s.key(playerID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(playerID string) string {
	return "game:session:" + playerID
}
