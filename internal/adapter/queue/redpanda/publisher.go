// Package redpanda publishes match events to a Kafka-compatible broker.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// EventTypeMatchCompleted is carried in the event_type record header.
const EventTypeMatchCompleted = "match.completed"

const defaultPublishTimeout = 5 * time.Second

// syncProducer is the subset of *kgo.Client the publisher relies on.
type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// EventPublisher implements domain.EventPublisher over franz-go.
type EventPublisher struct {
	client  syncProducer
	topic   string
	timeout time.Duration
}

// NewEventPublisher connects to brokers and makes sure topic exists.
// Topic creation failures are logged; the broker may auto-create or the
// topic may be managed elsewhere.
func NewEventPublisher(ctx context.Context, brokers []string, topic string) (*EventPublisher, error) {
	brokers = cleanBrokers(brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.NewEventPublisher: %w: no seed brokers provided", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("op=redpanda.NewEventPublisher: %w: topic is required", domain.ErrInvalidArgument)
	}

	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	k := kotel.NewKotel(kotel.WithTracer(tracer))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
		kgo.WithHooks(k.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.NewEventPublisher: %w", err)
	}

	if err := createTopicIfNotExists(ctx, client, topic, 1, 1); err != nil {
		slog.Warn("failed to ensure match events topic", slog.String("topic", topic), slog.Any("error", err))
	}
	slog.Info("match event publisher ready", slog.Any("brokers", brokers), slog.String("topic", topic))
	return newEventPublisher(client, topic), nil
}

func newEventPublisher(client syncProducer, topic string) *EventPublisher {
	return &EventPublisher{client: client, topic: topic, timeout: defaultPublishTimeout}
}

// PublishMatchCompleted produces evt keyed by its id and waits for the ack.
func (p *EventPublisher) PublishMatchCompleted(ctx domain.Context, evt domain.MatchCompleted) error {
	rec, err := encodeMatchCompleted(p.topic, evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("op=redpanda.PublishMatchCompleted event_id=%s: %w", evt.ID, err)
	}
	return nil
}

// Close flushes buffered records and closes the client.
func (p *EventPublisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Close()
}

func encodeMatchCompleted(topic string, evt domain.MatchCompleted) (*kgo.Record, error) {
	if evt.ID == "" {
		return nil, fmt.Errorf("op=redpanda.encode: %w: event id is required", domain.ErrInvalidArgument)
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.encode: %w", err)
	}
	headers := []kgo.RecordHeader{
		{Key: "event_type", Value: []byte(EventTypeMatchCompleted)},
		{Key: "event_id", Value: []byte(evt.ID)},
		{Key: "content_type", Value: []byte("application/json")},
	}
	if evt.RequestID != "" {
		headers = append(headers, kgo.RecordHeader{Key: "request_id", Value: []byte(evt.RequestID)})
	}
	return &kgo.Record{
		Topic:   topic,
		Key:     []byte(evt.ID),
		Value:   b,
		Headers: headers,
	}, nil
}

func cleanBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
