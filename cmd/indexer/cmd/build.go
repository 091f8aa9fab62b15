package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/publish"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/redis"
)

type buildFlags struct {
	corpus    string
	output    string
	lexicon   string
	extension string
	workers   int
}

// apply copies every flag the user set over the loaded configuration.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.IndexerConfig) {
	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.CorpusPath = f.corpus
	}
	if flags.Changed("output") {
		cfg.OutputPath = f.output
	}
	if flags.Changed("lexicon") {
		cfg.LexiconPath = f.lexicon
	}
	if flags.Changed("extension") {
		cfg.Extension = f.extension
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the inverted index of a corpus",
		Long: `Build tokenizes every document of the corpus directory, resolves tokens
against the lexicon and atomically writes the index artifact to the output
directory. Enabled publishers (Redis, PostgreSQL, Kafka) receive the index
once the artifact is in place.`,
		Example: `  indexer build --corpus ./docs --lexicon ./lexicon.csv --output ./out
  indexer build --config configs/indexer.yaml --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			flags.apply(cmd, &cfg.Indexer)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBuild(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.corpus, "corpus", "", "Corpus directory (indexer.corpusPath)")
	cmd.Flags().StringVar(&flags.output, "output", "", "Output directory (indexer.outputPath)")
	cmd.Flags().StringVar(&flags.lexicon, "lexicon", "", "Lexicon CSV file (indexer.lexiconPath)")
	cmd.Flags().StringVar(&flags.extension, "extension", ".txt", "Document file extension (indexer.extension)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 1, "Documents indexed in parallel (indexer.workers)")

	return cmd
}

func runBuild(cmd *cobra.Command, cfg *config.Config) error {
	runID := strconv.FormatInt(time.Now().UnixNano(), 36)
	ctx := logger.WithRunID(cmd.Context(), runID)
	log := logger.FromContext(ctx)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		checker := newChecker(cfg)
		shutdown := metrics.StartServer(cfg.Metrics.Port, m, map[string]http.Handler{
			"/healthz": checker.LiveHandler(),
			"/readyz":  checker.ReadyHandler(),
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn("metrics server shutdown", "error", err)
			}
		}()
	}
	defer pushMetrics(cfg.Metrics, m, log)

	res, err := indexer.Run(ctx, cfg.Indexer,
		indexer.WithMetrics(m),
		indexer.WithLogger(log.With("component", "indexer")),
	)
	if err != nil {
		return err
	}

	if err := publishResult(ctx, cfg, m, res); err != nil {
		return err
	}

	return printf(cmd, "indexed %d documents, %d word IDs -> %s\n", res.Documents, res.WordIDs, res.OutputPath)
}

// publishResult connects the enabled backends and hands them res. A backend
// that cannot be reached counts as a failed publish; the artifact is never
// touched.
func publishResult(ctx context.Context, cfg *config.Config, m *metrics.Metrics, res *indexer.Result) error {
	var targets []publish.Target

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrPublishFailed, "redis", err)
		}
		defer client.Close()
		targets = append(targets, publish.NewRedisTarget(client, cfg.Redis.KeyPrefix, cfg.Redis.BatchSize))
	}
	if cfg.Postgres.Enabled {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrPublishFailed, "postgres", err)
		}
		defer db.Close()
		targets = append(targets, publish.NewPostgresTarget(db))
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
		defer producer.Close()
		targets = append(targets, publish.NewKafkaTarget(producer))
	}

	if len(targets) == 0 {
		return nil
	}
	return publish.NewDispatcher(cfg.Publish, m, targets...).Publish(ctx, res)
}

// pushMetrics sends the run's metrics to the Pushgateway when one is
// configured. A failed push is logged and does not fail the run.
func pushMetrics(cfg config.MetricsConfig, m *metrics.Metrics, log *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	if err := m.Push(cfg.PushgatewayURL, cfg.Job); err != nil {
		log.Warn("pushing metrics", "url", cfg.PushgatewayURL, "error", err)
		return
	}
	log.Debug("metrics pushed", "url", cfg.PushgatewayURL, "job", cfg.Job)
}
