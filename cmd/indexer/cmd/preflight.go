package cmd

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/lexicon"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/redis"
)

// newChecker registers a check for every input and output of a build, plus
// each enabled publisher backend.
func newChecker(cfg *config.Config) *health.Checker {
	c := health.NewChecker()
	c.Register("lexicon", health.Ping(func(context.Context) error {
		_, err := lexicon.Load(cfg.Indexer.LexiconPath)
		return err
	}))
	c.Register("corpus", health.ReadableDir(cfg.Indexer.CorpusPath))
	c.Register("output", health.WritableDir(cfg.Indexer.OutputPath))

	if cfg.Redis.Enabled {
		c.Register("redis", health.Ping(func(context.Context) error {
			client, err := redis.NewClient(cfg.Redis)
			if err != nil {
				return err
			}
			return client.Close()
		}))
	}
	if cfg.Postgres.Enabled {
		c.Register("postgres", health.Ping(func(context.Context) error {
			db, err := postgres.New(cfg.Postgres)
			if err != nil {
				return err
			}
			return db.Close()
		}))
	}
	if cfg.Kafka.Enabled {
		c.Register("kafka", health.Ping(func(ctx context.Context) error {
			producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
			defer producer.Close()
			return producer.Ping(ctx)
		}))
	}
	return c
}
