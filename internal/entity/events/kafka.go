package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"kycdesk/internal/entity/metrics"
	"kycdesk/pkg/platform/circuit"
)

// Producer is the part of *kgo.Client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher produces changes keyed by entity id, so every change to one
// entity lands on one partition in order.
//
// A breaker guards the broker: after repeated failures changes go straight to
// the fallback until a probe succeeds.
type KafkaPublisher struct {
	producer Producer
	topic    string
	timeout  time.Duration
	breaker  *circuit.Breaker
	fallback Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

func WithTimeout(d time.Duration) KafkaOption {
	return func(p *KafkaPublisher) { p.timeout = d }
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(p *KafkaPublisher) { p.breaker = b }
}

// WithFallback receives changes the broker could not take.
func WithFallback(fb Publisher) KafkaOption {
	return func(p *KafkaPublisher) { p.fallback = fb }
}

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) KafkaOption {
	return func(p *KafkaPublisher) { p.metrics = m }
}

// NewKafkaPublisher publishes to topic through producer.
func NewKafkaPublisher(producer Producer, topic string, opts ...KafkaOption) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		timeout:  2 * time.Second,
		breaker:  circuit.New("kafka-change-feed"),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fallback == nil {
		p.fallback = NewLogPublisher(p.logger)
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, change Change) error {
	if !p.breaker.Allow() {
		p.metrics.IncrementEvent("dropped")
		return p.fallback.Publish(ctx, change)
	}

	value, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	record := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(change.EntityID),
		Value:     value,
		Timestamp: change.Timestamp,
		Headers:   []kgo.RecordHeader{{Key: "action", Value: []byte(change.Action)}},
	}

	// Produce on a detached context so a finished HTTP request does not cancel it.
	produceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.ProduceSync(produceCtx, record).FirstErr(); err != nil {
		p.metrics.IncrementEvent("failed")
		if p.breaker.RecordFailure() {
			p.logger.WarnContext(ctx, "change feed circuit opened", "breaker", p.breaker.Name(), "error", err)
		}
		_ = p.fallback.Publish(ctx, change)
		return fmt.Errorf("produce %s: %w", change.Action, err)
	}

	if p.breaker.RecordSuccess() {
		p.logger.InfoContext(ctx, "change feed circuit closed", "breaker", p.breaker.Name())
	}
	p.metrics.IncrementEvent("published")
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	p.producer.Close()
	return nil
}
