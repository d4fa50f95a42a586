// Package kafka publishes domain events to Kafka-compatible brokers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher produces JSON records synchronously.
type Publisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewPublisher connects to brokers. Returns nil when no brokers are configured;
// callers treat a nil *Publisher as publishing disabled.
func NewPublisher(brokers []string, logger *slog.Logger, opts ...kgo.Opt) (*Publisher, error) {
	brokers = seedBrokers(brokers)
	if len(brokers) == 0 {
		return nil, nil
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, logger: logger}, nil
}

// EnsureTopics creates topics that do not exist yet.
func (p *Publisher) EnsureTopics(ctx context.Context, topics ...string) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range resp.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// PublishJSON marshals v and produces it under key, waiting for the ack.
func (p *Publisher) PublishJSON(ctx context.Context, topic, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", topic, err)
	}
	record := &kgo.Record{Topic: topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	if p.logger != nil {
		p.logger.DebugContext(ctx, "kafka record produced",
			"topic", topic,
			"partition", record.Partition,
			"offset", record.Offset,
		)
	}
	return nil
}

// Close flushes and closes the client.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}

// seedBrokers trims entries and drops blanks and repeats, keeping order.
func seedBrokers(brokers []string) []string {
	seen := make(map[string]struct{}, len(brokers))
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
