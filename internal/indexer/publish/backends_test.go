package publish

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/redis"
)

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// skipIfNoRedis skips the test when Redis is unavailable.
func skipIfNoRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, err := redis.NewClient(config.RedisConfig{
		Addr:     envOrDefault("TEST_REDIS_ADDR", "localhost:6379"),
		DB:       envOrDefaultInt("TEST_REDIS_DB", 15),
		PoolSize: 2,
	})
	if err != nil {
		t.Skipf("skipping integration test: redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(config.PostgresConfig{
		Host:         envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:         envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:     envOrDefault("TEST_POSTGRES_DB", "searchplatform_test"),
		User:         envOrDefault("TEST_POSTGRES_USER", "searchplatform"),
		Password:     envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:      "disable",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRedisTarget_ReplacesPostings(t *testing.T) {
	client := skipIfNoRedis(t)
	ctx := context.Background()
	prefix := "postings_test"
	t.Cleanup(func() { client.FlushByPattern(context.Background(), prefix+":*") })

	stale := map[string][]int{redis.PostingsKey(prefix, 99): {7}}
	require.NoError(t, client.ReplaceSets(ctx, stale, 10))

	target := NewRedisTarget(client, prefix, 1)
	require.NoError(t, target.Publish(ctx, sampleResult()))

	docs, err := client.Members(ctx, redis.PostingsKey(prefix, 2))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, docs)

	gone, err := client.Members(ctx, redis.PostingsKey(prefix, 99))
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestPostgresTarget_ReplacesPostings(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	target := NewPostgresTarget(db)

	require.NoError(t, target.Publish(ctx, sampleResult()))
	require.NoError(t, target.Publish(ctx, sampleResult()), "publishing twice replaces rows")

	var count int
	require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT count(*) FROM postings`).Scan(&count))
	assert.Equal(t, 2, count)

	var docs string
	require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT doc_ids::text FROM postings WHERE word_id = 2`).Scan(&docs))
	assert.Equal(t, "{1,2}", docs)
}
