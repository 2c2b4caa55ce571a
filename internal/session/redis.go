package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenfield/clientintel/internal/intel"
)

const redisKeyPrefix = "clientintel:session:"

// RedisStore keeps profiles in Redis so sessions survive process restarts
// and can be shared across replicas. Profiles are stored as JSON under
// clientintel:session:<id> with the store TTL, refreshed on every Put.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: redis ping %s: %w", addr, err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*intel.ClientProfile, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	var p intel.ClientProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("session: decode profile %s: %w", sessionID, err)
	}
	return &p, nil
}

func (s *RedisStore) Put(ctx context.Context, profile *intel.ClientProfile) error {
	if profile == nil || profile.SessionID == "" {
		return errors.New("session: profile must have a session id")
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("session: encode profile %s: %w", profile.SessionID, err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+profile.SessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
