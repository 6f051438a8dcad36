package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"esports-registration/registration"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	redisKeyPrefix  = "registration_session:"
	redisLockPrefix = "registration_session_lock:"
)

// releaseLock deletes the lock only if it still carries our token.
var releaseLock = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisStore keeps workflows as JSON under registration_session:<id>.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &RedisStore{Client: client, TTL: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (registration.Workflow, error) {
	var w registration.Workflow
	val, err := s.Client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return w, ErrNotFound
	}
	if err != nil {
		return w, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if err := json.Unmarshal(val, &w); err != nil {
		return w, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return w, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, w registration.Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	return s.Client.Set(ctx, redisKeyPrefix+id, data, s.TTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, redisKeyPrefix+id).Err()
}

// Lock uses SET NX with a random token, so a lease that expired and was taken
// by another replica is never released by the old holder.
func (s *RedisStore) Lock(ctx context.Context, id string, ttl time.Duration) (func(), error) {
	key := redisLockPrefix + id
	token := uuid.NewString()

	ok, err := s.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := releaseLock.Run(context.WithoutCancel(ctx), s.Client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ [SESSIONS] Failed to release lock for session %s: %v", id, err)
		}
	}, nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
