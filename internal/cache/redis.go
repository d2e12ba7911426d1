// Package cache keeps resolved links in Redis so redirects can skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "link:"

// ErrMiss is returned when a code is not in the cache
var ErrMiss = errors.New("key not found")

// Link is the cached part of a short link. Both fields never change once
// the link exists, so entries only expire.
type Link struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// LinkCache stores links by short code
type LinkCache interface {
	GetLink(ctx context.Context, code string) (Link, error)
	SetLink(ctx context.Context, code string, link Link) error
	Close() error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL, given either as a redis:// URL or a
// plain host:port. Entries expire after ttl.
func NewRedisCache(redisURL string, ttl time.Duration) (LinkCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client, ttl: ttl}, nil
}

// Key returns the Redis key holding code
func Key(code string) string {
	return keyPrefix + code
}

func (r *redisCache) GetLink(ctx context.Context, code string) (Link, error) {
	var link Link

	data, err := r.client.Get(ctx, Key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return link, ErrMiss
	}
	if err != nil {
		return link, err
	}

	if err := json.Unmarshal(data, &link); err != nil {
		return link, fmt.Errorf("failed to decode cached link %q: %w", code, err)
	}
	if link.ID <= 0 || link.URL == "" {
		return Link{}, ErrMiss
	}
	return link, nil
}

func (r *redisCache) SetLink(ctx context.Context, code string, link Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}
	return r.client.Set(ctx, Key(code), data, r.ttl).Err()
}

// Close releases the connection pool
func (r *redisCache) Close() error {
	return r.client.Close()
}
