// Package redis wraps go-redis/v9 for loading finished posting lists into
// Redis sets, where a query service can read them with SMEMBERS.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
)

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// PostingsKey is the set key holding the document IDs of wordID.
func PostingsKey(prefix string, wordID int) string {
	return prefix + ":" + strconv.Itoa(wordID)
}

// ReplaceSets overwrites each key in sets with exactly the given members,
// batchSize keys per pipeline round trip.
func (c *Client) ReplaceSets(ctx context.Context, sets map[string][]int, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	pipe := c.rdb.Pipeline()
	queued := 0
	flush := func() error {
		if queued == 0 {
			return nil
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("executing pipeline: %w", err)
		}
		queued = 0
		return nil
	}
	for key, members := range sets {
		pipe.Del(ctx, key)
		if len(members) > 0 {
			args := make([]any, len(members))
			for i, m := range members {
				args[i] = m
			}
			pipe.SAdd(ctx, key, args...)
		}
		queued++
		if queued >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// SetHash writes fields into the hash at key.
func (c *Client) SetHash(ctx context.Context, key string, fields map[string]any) error {
	return c.rdb.HSet(ctx, key, fields).Err()
}

// Members returns the integer members of the set at key.
func (c *Client) Members(ctx context.Context, key string) ([]int, error) {
	vals, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("set %s has non-integer member %q", key, v)
		}
		out = append(out, n)
	}
	return out, nil
}

// FlushByPattern scans for keys matching the glob pattern and deletes them,
// returning the number of keys removed.
func (c *Client) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("deleting key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning pattern %s: %w", pattern, err)
	}
	return deleted, nil
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping sends a PING to Redis and returns any error.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
