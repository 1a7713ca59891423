package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type ProfileCache struct {
	R   *redis.Client
	TTL time.Duration
}

func profileKey(username string) string { return "profile:" + strings.ToLower(username) }

func (c *ProfileCache) Get(ctx context.Context, username string) (*model.Profile, error) {
	var p model.Profile
	if err := get(ctx, c.R, "profile", profileKey(username), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProfileCache) Set(ctx context.Context, p *model.Profile) error {
	return set(ctx, c.R, profileKey(p.Username), p, c.TTL)
}

func (c *ProfileCache) Delete(ctx context.Context, username string) error {
	return c.R.Del(ctx, profileKey(username)).Err()
}

func get(ctx context.Context, r *redis.Client, name, key string, dst any) error {
	b, err := r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.CacheRequestsTotal.WithLabelValues(name, "miss").Inc()
		return ErrMiss
	}
	if err != nil {
		observability.CacheRequestsTotal.WithLabelValues(name, "error").Inc()
		return err
	}
	observability.CacheRequestsTotal.WithLabelValues(name, "hit").Inc()
	return json.Unmarshal(b, dst)
}

func set(ctx context.Context, r *redis.Client, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, b, ttl).Err()
}
