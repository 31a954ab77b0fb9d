// Package kafka wraps the franz-go client behind a small publisher interface
// so domain code never touches broker-specific types.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher is the interface domain code uses to publish events.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, value any) error
	Close()
}

// Producer is a thin wrapper around a kgo client implementing Publisher.
type Producer struct {
	client *kgo.Client
}

// NewProducer connects to the given brokers. Returns nil when no brokers are
// configured (publishing disabled).
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client}, nil
}

// Publish marshals value to JSON and produces it synchronously. Callers decide
// whether a publish failure fails their operation; attendance publishing is
// best-effort.
func (p *Producer) Publish(ctx context.Context, topic string, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal kafka value: %w", err)
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
