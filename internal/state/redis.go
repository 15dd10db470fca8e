package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "shelfwatch:state"

// redisClient is the subset of *redis.Client the backend uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisBackend stores the TOML state document under a single key.
type RedisBackend struct {
	rdb redisClient
	key string
}

// OpenRedis connects to addr. The connection is established lazily by the
// first command.
func OpenRedis(addr, password string, db int, key string) (*RedisBackend, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return newRedisBackend(rdb, key), nil
}

func newRedisBackend(rdb redisClient, key string) *RedisBackend {
	if strings.TrimSpace(key) == "" {
		key = defaultRedisKey
	}
	return &RedisBackend{rdb: rdb, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) (*State, error) {
	data, err := b.rdb.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return decodeState(data)
}

func (b *RedisBackend) Save(ctx context.Context, s *State) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}
	if err := b.rdb.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.rdb.Close() }
