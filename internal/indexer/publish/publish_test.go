package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/metrics"
)

func sampleResult() *indexer.Result {
	return &indexer.Result{
		Documents:  2,
		WordIDs:    2,
		Postings:   3,
		OutputPath: "/data/out/inverted_index.csv",
		Bytes:      26,
		Checksum:   0xdeadbeef,
		Entries: []index.TermEntry{
			{WordID: 1, DocIDs: []int{1}},
			{WordID: 2, DocIDs: []int{1, 2}},
		},
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
}

var fastPublish = config.PublishConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Timeout: time.Second}

type fakeTarget struct {
	name     string
	failures int
	calls    int
	got      *indexer.Result
}

func (f *fakeTarget) Name() string { return f.name }

func (f *fakeTarget) Publish(ctx context.Context, res *indexer.Result) error {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a per-attempt deadline")
	}
	if f.calls <= f.failures {
		return errors.New("unavailable")
	}
	f.got = res
	return nil
}

func TestDispatcher_PublishesToAllTargets(t *testing.T) {
	a := &fakeTarget{name: "a"}
	b := &fakeTarget{name: "b", failures: 1}
	m := metrics.New()
	d := NewDispatcher(fastPublish, m, a, b)
	res := sampleResult()

	require.NoError(t, d.Publish(context.Background(), res))
	assert.Same(t, res, a.got)
	assert.Same(t, res, b.got)
	assert.Equal(t, 2, b.calls, "transient failure is retried")
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishTotal.WithLabelValues("b", "ok")))
}

func TestDispatcher_FailureNamesTargetAndContinues(t *testing.T) {
	down := &fakeTarget{name: "redis", failures: 10}
	up := &fakeTarget{name: "kafka"}
	m := metrics.New()
	d := NewDispatcher(fastPublish, m, down, up)

	err := d.Publish(context.Background(), sampleResult())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPublishFailed)
	assert.Equal(t, "redis", apperrors.Location(err))
	assert.Equal(t, 3, down.calls)
	assert.NotNil(t, up.got, "later targets still run")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishTotal.WithLabelValues("redis", "error")))
}

func TestDispatcher_NoTargets(t *testing.T) {
	d := NewDispatcher(fastPublish, nil)
	assert.NoError(t, d.Publish(context.Background(), sampleResult()))
}

type fakeProducer struct {
	events []kafka.Event
}

func (f *fakeProducer) Publish(_ context.Context, event kafka.Event) error {
	f.events = append(f.events, event)
	return nil
}

func TestKafkaTarget_PublishesIndexComplete(t *testing.T) {
	p := &fakeProducer{}
	target := NewKafkaTarget(p)
	res := sampleResult()

	require.NoError(t, target.Publish(context.Background(), res))
	require.Len(t, p.events, 1)
	assert.Equal(t, "kafka", target.Name())
	assert.Equal(t, res.OutputPath, p.events[0].Key)

	data, err := json.Marshal(p.events[0].Value)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "/data/out/inverted_index.csv", got["output_path"])
	assert.EqualValues(t, 2, got["word_ids"])
	assert.EqualValues(t, 3, got["postings"])
	assert.EqualValues(t, uint32(0xdeadbeef), got["checksum"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["started_at"])
	assert.Equal(t, "2026-01-02T03:04:06.5Z", got["finished_at"])
}
