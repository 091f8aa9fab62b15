package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
)

func TestPing_NoBrokers(t *testing.T) {
	p := NewProducer(config.KafkaConfig{}, "index.complete")
	defer p.Close()

	err := p.Ping(context.Background())
	assert.EqualError(t, err, "no kafka brokers configured")
}

func TestPing_UnreachableBroker(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}}, "index.complete")
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := p.Ping(ctx)
	assert.ErrorContains(t, err, "dialing kafka")
}
