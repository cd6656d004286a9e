package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

const (
	threadKeyPrefix = "chat:thread:"
	threadIndexKey  = "chat:threads"
)

var _ Store = (*RedisStore)(nil)

// RedisStore persists threads as Redis lists of JSON-encoded messages
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context, threadID string) ([]domain.Message, error) {
	raw, err := s.rdb.LRange(ctx, threadKey(threadID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", threadID, err)
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("session: decode message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *RedisStore) Append(ctx context.Context, threadID string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("session: encode message: %w", err)
		}
		values = append(values, b)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, threadKey(threadID), values...)
		pipe.SAdd(ctx, threadIndexKey, threadID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: append %s: %w", threadID, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, threadID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, threadKey(threadID))
		pipe.SRem(ctx, threadIndexKey, threadID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: clear %s: %w", threadID, err)
	}
	return nil
}

func (s *RedisStore) Threads(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, threadIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("session: list threads: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func threadKey(id string) string {
	return threadKeyPrefix + id
}
