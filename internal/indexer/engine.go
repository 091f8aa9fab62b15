// Package indexer builds the word ID inverted index of a corpus in one
// offline pass.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/lexicon"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/lock"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/metrics"
)

// Result summarises a successful build.
type Result struct {
	Documents  int
	WordIDs    int
	Postings   int
	OutputPath string
	Bytes      int64
	Checksum   uint32
	Entries    []index.TermEntry
	StartedAt  time.Time
	Duration   time.Duration
}

// Builder runs one index build. A Builder is scoped to a single run
// configuration; Build may be called again to rebuild from scratch.
type Builder struct {
	cfg     config.IndexerConfig
	lexicon *lexicon.Lexicon
	source  corpus.Source
	writer  *segment.Writer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Builder)

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder wires a builder. The lexicon and source are read-only for the
// whole run.
func NewBuilder(cfg config.IndexerConfig, lex *lexicon.Lexicon, src corpus.Source, opts ...Option) *Builder {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "inverted_index.csv"
	}
	b := &Builder{
		cfg:     cfg,
		lexicon: lex,
		source:  src,
		writer:  segment.NewWriter(cfg.OutputPath, cfg.OutputFile),
		logger:  slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build enumerates the corpus, indexes every document and atomically writes
// the artifact. Any error, including cancellation of ctx, aborts the run and
// leaves no new artifact behind.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := b.build(ctx, start)
	b.finish(err, start)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Run loads the lexicon named by cfg and builds the index of the directory
// corpus at cfg.CorpusPath.
func Run(ctx context.Context, cfg config.IndexerConfig, opts ...Option) (*Result, error) {
	start := time.Now()
	b := NewBuilder(cfg, nil, corpus.NewDir(cfg.CorpusPath, cfg.Extension), opts...)
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		err = fmt.Errorf("loading lexicon: %w", err)
		b.finish(err, start)
		return nil, err
	}
	b.logger.Info("lexicon loaded", "path", cfg.LexiconPath, "terms", lex.Len())
	b.lexicon = lex
	return b.Build(ctx)
}

func (b *Builder) finish(err error, start time.Time) {
	if b.metrics != nil {
		b.metrics.ObserveBuild(apperrors.Kind(err), time.Since(start))
	}
	if err != nil {
		b.logger.Error("index build failed",
			"kind", apperrors.Kind(err),
			"location", apperrors.Location(err),
			"error", err,
		)
	}
}

func (b *Builder) build(ctx context.Context, start time.Time) (*Result, error) {
	dirLock := lock.New(b.cfg.OutputPath)
	if err := dirLock.TryLock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := dirLock.Unlock(); err != nil {
			b.logger.Warn("releasing output lock", "error", err)
		}
	}()

	docs, err := b.source.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating corpus: %w", err)
	}
	b.logger.Info("corpus enumerated",
		"documents", len(docs),
		"lexicon_terms", b.lexicon.Len(),
		"workers", b.cfg.Workers,
	)

	postings := index.NewPostingIndex()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for _, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return b.indexDocument(gctx, postings, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("index build cancelled: %w", err)
	}

	entries := postings.Snapshot()
	written, err := b.writer.Write(entries)
	if err != nil {
		return nil, fmt.Errorf("writing index: %w", err)
	}
	stats := postings.Stats()
	if b.metrics != nil {
		b.metrics.IndexWordIDs.Set(float64(stats.WordIDs))
		b.metrics.IndexPostings.Set(float64(stats.Postings))
		b.metrics.IndexBytes.Set(float64(written.Bytes))
	}
	res := &Result{
		Documents:  len(docs),
		WordIDs:    stats.WordIDs,
		Postings:   stats.Postings,
		OutputPath: written.Path,
		Bytes:      written.Bytes,
		Checksum:   written.Checksum,
		Entries:    entries,
		StartedAt:  start,
		Duration:   time.Since(start),
	}
	b.logger.Info("index written",
		"path", res.OutputPath,
		"documents", res.Documents,
		"word_ids", res.WordIDs,
		"postings", res.Postings,
		"bytes", res.Bytes,
		"duration", res.Duration,
	)
	return res, nil
}

// indexDocument reads and tokenizes doc, then merges its distinct word IDs
// into postings under the index lock.
func (b *Builder) indexDocument(ctx context.Context, postings *index.PostingIndex, doc corpus.Document) error {
	text, err := b.source.ReadText(ctx, doc)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("index build cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("reading %s: %w", doc, err)
	}

	seen := make(map[int]struct{})
	wordIDs := make([]int, 0, 64)
	tokens := 0
	resolved := 0
	for tok := range tokenizer.Tokens(text) {
		tokens++
		wid, ok := b.lexicon.Lookup(tok)
		if !ok {
			continue
		}
		resolved++
		if _, dup := seen[wid]; dup {
			continue
		}
		seen[wid] = struct{}{}
		wordIDs = append(wordIDs, wid)
	}
	postings.AddDocument(doc.ID, wordIDs)

	if b.metrics != nil {
		b.metrics.DocsIndexedTotal.Inc()
		b.metrics.TokensTotal.Add(float64(tokens))
		b.metrics.TokensResolvedTotal.Add(float64(resolved))
	}
	b.logger.Debug("document indexed",
		"doc_id", doc.ID,
		"name", doc.Name,
		"token_count", tokens,
		"word_ids", len(wordIDs),
	)
	return nil
}
