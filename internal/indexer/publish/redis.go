package publish

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/redis"
)

// RedisTarget mirrors the index as one set per word ID under prefix, plus a
// prefix:meta hash describing the build. Keys of the previous build are
// removed first so word IDs that lost all postings disappear.
type RedisTarget struct {
	client    *redis.Client
	prefix    string
	batchSize int
}

func NewRedisTarget(client *redis.Client, prefix string, batchSize int) *RedisTarget {
	return &RedisTarget{client: client, prefix: prefix, batchSize: batchSize}
}

func (r *RedisTarget) Name() string { return "redis" }

func (r *RedisTarget) Publish(ctx context.Context, res *indexer.Result) error {
	if _, err := r.client.FlushByPattern(ctx, r.prefix+":*"); err != nil {
		return fmt.Errorf("clearing previous postings: %w", err)
	}
	sets := make(map[string][]int, len(res.Entries))
	for _, entry := range res.Entries {
		sets[redis.PostingsKey(r.prefix, entry.WordID)] = entry.DocIDs
	}
	if err := r.client.ReplaceSets(ctx, sets, r.batchSize); err != nil {
		return fmt.Errorf("writing postings: %w", err)
	}
	meta := map[string]any{
		"output_path": res.OutputPath,
		"documents":   res.Documents,
		"word_ids":    res.WordIDs,
		"postings":    res.Postings,
		"checksum":    res.Checksum,
	}
	if err := r.client.SetHash(ctx, r.prefix+":meta", meta); err != nil {
		return fmt.Errorf("writing build metadata: %w", err)
	}
	return nil
}
