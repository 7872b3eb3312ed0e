package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"londonpark/internal/config"
	"londonpark/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisConfirmationRepository persists pending delete confirmations in
// Redis so they survive a console restart.
type RedisConfirmationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisConfirmationRepository(client *redis.Client, ttl time.Duration) *RedisConfirmationRepository {
	return &RedisConfirmationRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisConfirmationRepository) Put(ctx context.Context, pending *models.PendingDelete) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := confirmKey(pending.Token)
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending delete: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending delete in redis: %w", err)
	}

	return nil
}

func (r *RedisConfirmationRepository) Get(ctx context.Context, token string) (*models.PendingDelete, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, confirmKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending delete from redis: %w", err)
	}

	var pending models.PendingDelete
	if err := json.Unmarshal([]byte(val), &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending delete: %w", err)
	}

	return &pending, nil
}

func (r *RedisConfirmationRepository) Delete(ctx context.Context, token string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, confirmKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending delete from redis: %w", err)
	}
	return nil
}

func confirmKey(token string) string {
	return fmt.Sprintf("pending_delete:%s", token)
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
