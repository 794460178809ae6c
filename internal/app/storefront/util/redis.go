package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saharaessence/internal/app/storefront/entity"

	"github.com/redis/go-redis/v9"
)

const (
	perfumeListCacheKey = "perfumes:all"
	cartKeyPrefix       = "cart:"
	cartTTL             = 30 * 24 * time.Hour
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// === Кеш списка каталога ===

func (r *RedisClient) SetPerfumeList(ctx context.Context, perfumes []entity.Perfume, ttl time.Duration) error {
	data, err := json.Marshal(perfumes)
	if err != nil {
		return fmt.Errorf("failed to marshal perfumes: %w", err)
	}

	if err := r.client.Set(ctx, perfumeListCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set perfumes in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetPerfumeList(ctx context.Context) ([]entity.Perfume, error) {
	data, err := r.client.Get(ctx, perfumeListCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get perfumes from cache: %w", err)
	}

	var perfumes []entity.Perfume
	if err := json.Unmarshal(data, &perfumes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal perfumes: %w", err)
	}

	return perfumes, nil
}

func (r *RedisClient) InvalidatePerfumeList(ctx context.Context) error {
	if err := r.client.Del(ctx, perfumeListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate perfume cache: %w", err)
	}
	return nil
}

// === Сессионные корзины ===
// Корзина сериализуется целиком при каждой мутации, частичных обновлений нет

func (r *RedisClient) GetCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return &cart, nil
}

func (r *RedisClient) SaveCart(ctx context.Context, sessionID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKeyPrefix+sessionID, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (r *RedisClient) DeleteCart(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
