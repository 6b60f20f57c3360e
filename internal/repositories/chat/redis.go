package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client      redis.UniversalClient
	clock       clock.TimeProvider
	maxMessages int
}

// RedisRepoConfig holds configuration for the Redis chat repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider clock.TimeProvider
	MaxMessages  int
}

// NewRedisRepository creates a chat repository that stores each campaign's
// log as a capped Redis list
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = clock.System()
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}

	return &redisRepo{
		client:      cfg.Client,
		clock:       cfg.TimeProvider,
		maxMessages: cfg.MaxMessages,
	}
}

func (r *redisRepo) key(campaignID string) string {
	return fmt.Sprintf("campaign:%s:chat", campaignID)
}

// Append pushes the message and trims the list in one round trip
func (r *redisRepo) Append(ctx context.Context, msg *Message) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.clock.Now()
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.RPush(ctx, r.key(msg.CampaignID), string(jsonData))
	pipe.LTrim(ctx, r.key(msg.CampaignID), int64(-r.maxMessages), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// List returns the newest messages, oldest first
func (r *redisRepo) List(ctx context.Context, campaignID string, limit int) ([]*Message, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := r.client.LRange(ctx, r.key(campaignID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	result := make([]*Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		result = append(result, &msg)
	}
	return result, nil
}
