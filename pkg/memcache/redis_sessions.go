package mem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coursepick/internal/models/session_models"
)

const (
	sessionKeyPrefix  = "coursepick:session:"
	inflightKeyPrefix = "coursepick:inflight:"
)

// RedisFormSessions shares form sessions between instances.
type RedisFormSessions struct {
	Redis *redis.Client
}

// NewRedisFormSessions parses redisURL and checks the connection.
func NewRedisFormSessions(redisURL string) (*RedisFormSessions, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}
	return &RedisFormSessions{Redis: client}, nil
}

func (s *RedisFormSessions) Close() error {
	return s.Redis.Close()
}

func (s *RedisFormSessions) Get(ctx context.Context, id string) (*session_models.FormSession, error) {
	b, err := s.Redis.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}
	var sess session_models.FormSession
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisFormSessions) Set(ctx context.Context, sess *session_models.FormSession, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return s.Redis.Set(ctx, sessionKeyPrefix+sess.ID, b, ttl).Err()
}

func (s *RedisFormSessions) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *RedisFormSessions) AcquireSubmit(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.Redis.SetNX(ctx, inflightKeyPrefix+id, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire submit %s: %w", id, err)
	}
	return ok, nil
}

func (s *RedisFormSessions) ReleaseSubmit(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, inflightKeyPrefix+id).Err()
}

func (s *RedisFormSessions) Submitting(ctx context.Context, id string) (bool, error) {
	n, err := s.Redis.Exists(ctx, inflightKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redis check submit %s: %w", id, err)
	}
	return n > 0, nil
}
