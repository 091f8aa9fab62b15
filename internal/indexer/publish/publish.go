// Package publish exports a finished index to downstream systems. Publishing
// runs only after the artifact is finalized and never touches it; a failed
// publish fails the run but the artifact stays valid.
package publish

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/resilience"
)

// Target receives a finished build.
type Target interface {
	Name() string
	Publish(ctx context.Context, res *indexer.Result) error
}

// Dispatcher publishes to every target in order, retrying each one.
type Dispatcher struct {
	targets []Target
	cfg     config.PublishConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDispatcher(cfg config.PublishConfig, m *metrics.Metrics, targets ...Target) *Dispatcher {
	return &Dispatcher{
		targets: targets,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "publisher"),
	}
}

func (d *Dispatcher) Len() int {
	return len(d.targets)
}

// Publish sends res to all targets. A failing target does not stop the
// others; the combined error names every failed target.
func (d *Dispatcher) Publish(ctx context.Context, res *indexer.Result) error {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:  d.cfg.MaxAttempts,
		InitialDelay: d.cfg.InitialDelay,
	}
	var failed []string
	var errs []error
	for _, target := range d.targets {
		err := resilience.Retry(ctx, "publish "+target.Name(), retryCfg, func(ctx context.Context) error {
			attemptCtx := ctx
			if d.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
				defer cancel()
			}
			return target.Publish(attemptCtx, res)
		})
		status := "ok"
		if err != nil {
			status = "error"
			failed = append(failed, target.Name())
			errs = append(errs, err)
			d.logger.Error("publish failed", "target", target.Name(), "error", err)
		} else {
			d.logger.Info("index published", "target", target.Name(), "word_ids", res.WordIDs)
		}
		if d.metrics != nil {
			d.metrics.PublishTotal.WithLabelValues(target.Name(), status).Inc()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrPublishFailed, strings.Join(failed, ","), errors.Join(errs...))
}
