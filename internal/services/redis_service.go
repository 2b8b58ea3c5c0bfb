package services

import (
	"context"
	"fmt"
	"time"

	"primedrive-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// RedisService provides Redis-backed rate limiting
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a Redis service backed by the shared client
func NewRedisService() *RedisService {
	return &RedisService{client: database.GetRedis()}
}

// CheckPaymentRateLimit reports whether the user recently initiated a
// payment and must wait before starting another
func (r *RedisService) CheckPaymentRateLimit(userID string) (bool, error) {
	// Without Redis the rate limit is simply not enforced
	if r.client == nil {
		return false, nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("payment_rate:%s", userID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}

// SetPaymentRateLimit starts the rate-limit window after a payment
// initiation
func (r *RedisService) SetPaymentRateLimit(userID string, limitMinutes int) error {
	if r.client == nil {
		return nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("payment_rate:%s", userID)
	expire := time.Duration(limitMinutes) * time.Minute
	return r.client.Set(ctx, key, "1", expire).Err()
}
