// Package redpanda publishes application lifecycle events to Redpanda/Kafka.
//
// Publishing is best-effort: the application pipeline never fails a request
// because an event could not be delivered.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/nexfound/apply-engine/internal/domain"
)

// TopicApplicationEvents carries application.created events.
const TopicApplicationEvents = "application-events"

const errTopicAlreadyExists = 36

// Producer wraps a Kafka producer and implements domain.EventPublisher.
type Producer struct {
	client *kgo.Client
}

// NewProducer constructs a Producer and ensures the events topic exists.
func NewProducer(ctx context.Context, brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=events.new_producer: no seed brokers provided")
	}

	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))),
	)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=events.new_producer: %w", err)
	}

	if err := createTopicIfNotExists(ctx, client, TopicApplicationEvents, 1, 1); err != nil {
		// The topic may already exist or be auto-created by the broker.
		slog.Warn("ensure events topic", slog.String("topic", TopicApplicationEvents), slog.Any("error", err))
	}
	return &Producer{client: client}, nil
}

// PublishApplicationCreated emits an application.created event keyed by
// application id. The produce is synchronous so callers running it in a
// goroutine observe delivery errors in the returned error.
func (p *Producer) PublishApplicationCreated(ctx domain.Context, ev domain.ApplicationCreatedEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("op=events.publish_application_created: %w", err)
	}
	record := &kgo.Record{
		Topic: TopicApplicationEvents,
		Key:   []byte(ev.ApplicationID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte("application.created")},
			{Key: "user_id", Value: []byte(ev.UserID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("op=events.publish_application_created: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

// createTopicIfNotExists creates the topic via the admin API, treating
// TOPIC_ALREADY_EXISTS as success.
func createTopicIfNotExists(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	req := kmsg.NewCreateTopicsRequest()
	req.TimeoutMillis = 30000

	topicReq := kmsg.NewCreateTopicsRequestTopic()
	topicReq.Topic = topic
	topicReq.NumPartitions = partitions
	topicReq.ReplicationFactor = replicationFactor
	req.Topics = append(req.Topics, topicReq)

	resp, err := client.Request(ctx, &req)
	if err != nil {
		return fmt.Errorf("create topics request: %w", err)
	}
	createResp, ok := resp.(*kmsg.CreateTopicsResponse)
	if !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}
	for _, topicResp := range createResp.Topics {
		if topicResp.ErrorCode == 0 || topicResp.ErrorCode == errTopicAlreadyExists {
			continue
		}
		errorMsg := ""
		if topicResp.ErrorMessage != nil {
			errorMsg = *topicResp.ErrorMessage
		}
		return fmt.Errorf("create topic %s: %s (code %d)", topicResp.Topic, errorMsg, topicResp.ErrorCode)
	}
	return nil
}
