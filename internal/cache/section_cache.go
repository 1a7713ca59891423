package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rize-social/rize/internal/model"
)

// SectionCache holds a profile's section registry in order.
type SectionCache struct {
	R   *redis.Client
	TTL time.Duration
}

func sectionKey(profileID string) string { return "sections:" + profileID }

func (c *SectionCache) Get(ctx context.Context, profileID string) ([]model.Section, error) {
	var out []model.Section
	if err := get(ctx, c.R, "sections", sectionKey(profileID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SectionCache) Set(ctx context.Context, profileID string, sections []model.Section) error {
	return set(ctx, c.R, sectionKey(profileID), sections, c.TTL)
}

func (c *SectionCache) Delete(ctx context.Context, profileID string) error {
	return c.R.Del(ctx, sectionKey(profileID)).Err()
}

// redisPinger adapts a redis client to observability.Pinger.
type redisPinger struct{ r *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error { return p.r.Ping(ctx).Err() }

// Pinger returns a readiness check for the client.
func Pinger(r *redis.Client) interface {
	PingContext(ctx context.Context) error
} {
	return redisPinger{r: r}
}

// New connects a Redis client to addr.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
