package drafts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis — Store поверх Redis Hash: один ключ на scope,
// поля "<topic>" (текст) и "<topic>:reply" (id комментария-адресата).
// TTL ключа продлевается при каждом Save.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "forum:drafts:".
func NewRedis(redisURL, prefix string, ttl time.Duration) (*Redis, error) {
	const op = "drafts/NewRedis"

	if prefix == "" {
		prefix = "forum:drafts:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *Redis) key(scope string) string { return s.prefix + scope }

func replyField(topicID string) string { return topicID + ":reply" }

func (s *Redis) Save(ctx context.Context, scope, topicID string, d Draft) error {
	if strings.TrimSpace(d.Text) == "" && d.ReplyTo == "" {
		return s.Delete(ctx, scope, topicID)
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(scope), topicID, d.Text, replyField(topicID), d.ReplyTo)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(scope), s.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Redis) Load(ctx context.Context, scope string, topicIDs []string) (map[string]Draft, error) {
	out := make(map[string]Draft)
	if len(topicIDs) == 0 {
		return out, nil
	}

	fields := make([]string, 0, 2*len(topicIDs))
	for _, id := range topicIDs {
		fields = append(fields, id, replyField(id))
	}

	vals, err := s.rdb.HMGet(ctx, s.key(scope), fields...).Result()
	if err != nil {
		return nil, err
	}

	for i, id := range topicIDs {
		text, ok := vals[2*i].(string)
		if !ok {
			continue
		}
		reply, _ := vals[2*i+1].(string)
		out[id] = Draft{Text: text, ReplyTo: reply}
	}

	return out, nil
}

func (s *Redis) Delete(ctx context.Context, scope, topicID string) error {
	return s.rdb.HDel(ctx, s.key(scope), topicID, replyField(topicID)).Err()
}

// Close закрывает клиент Redis.
func (s *Redis) Close() error { return s.rdb.Close() }
