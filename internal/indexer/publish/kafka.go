package publish

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/kafka"
)

// IndexComplete is the event announcing a new artifact.
type IndexComplete struct {
	OutputPath string    `json:"output_path"`
	Documents  int       `json:"documents"`
	WordIDs    int       `json:"word_ids"`
	Postings   int       `json:"postings"`
	Bytes      int64     `json:"bytes"`
	Checksum   uint32    `json:"checksum"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaTarget emits one IndexComplete event per build.
type KafkaTarget struct {
	producer EventPublisher
}

func NewKafkaTarget(p EventPublisher) *KafkaTarget {
	return &KafkaTarget{producer: p}
}

func (k *KafkaTarget) Name() string { return "kafka" }

func (k *KafkaTarget) Publish(ctx context.Context, res *indexer.Result) error {
	return k.producer.Publish(ctx, kafka.Event{
		Key:   res.OutputPath,
		Value: NewIndexComplete(res),
	})
}

func NewIndexComplete(res *indexer.Result) IndexComplete {
	return IndexComplete{
		OutputPath: res.OutputPath,
		Documents:  res.Documents,
		WordIDs:    res.WordIDs,
		Postings:   res.Postings,
		Bytes:      res.Bytes,
		Checksum:   res.Checksum,
		StartedAt:  res.StartedAt.UTC(),
		FinishedAt: res.StartedAt.Add(res.Duration).UTC(),
	}
}
