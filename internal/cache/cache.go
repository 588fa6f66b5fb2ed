// Package cache stores JSON read models in Redis under invalidation tags.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const tagPrefix = "tag:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

func tagKey(tag string) string { return tagPrefix + tag }

// Get decodes the value stored at key into dst. A miss reports false with no error.
func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}

	return true, nil
}

// Set stores value at key and records the key under every tag.
func (c *Redis) Set(ctx context.Context, key string, value any, tags []string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)

		for _, tag := range tags {
			pipe.SAdd(ctx, tagKey(tag), key)
			pipe.Expire(ctx, tagKey(tag), c.ttl)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

// Invalidate deletes every key recorded under the tags, and the tag sets themselves.
func (c *Redis) Invalidate(ctx context.Context, tags []string) error {
	for _, tag := range tags {
		keys, err := c.client.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return fmt.Errorf("reading tag %s: %w", tag, err)
		}

		keys = append(keys, tagKey(tag))

		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("invalidating tag %s: %w", tag, err)
		}
	}

	return nil
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Get(context.Context, string, any) (bool, error)   { return false, nil }
func (Nop) Set(context.Context, string, any, []string) error { return nil }
func (Nop) Invalidate(context.Context, []string) error       { return nil }
