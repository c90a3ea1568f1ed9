package publisher

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tablebook/config"
	"tablebook/infras/kafka"
	"tablebook/infras/otel"
	"tablebook/infras/rabbitmq"
	"tablebook/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	otelTopicAttribute  = "event.topic"
	otelDriverAttribute = "event.driver"
)

// Publisher sends domain events to the configured broker.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type kafkaPublisher struct {
	client kafka.Client
	otel   otel.Otel
}

type rabbitPublisher struct {
	client rabbitmq.Client
	otel   otel.Otel
}

type noopPublisher struct{}

// New picks the implementation from the broker driver setting.
func New(cfg *config.Config, ot otel.Otel) Publisher {
	switch cfg.Broker.Driver {
	case constant.BrokerDriverKafka:
		return NewKafka(kafka.New(cfg), ot)
	case constant.BrokerDriverRabbitMQ:
		return NewRabbitMQ(rabbitmq.New(cfg), ot)
	default:
		log.Info().Str("driver", cfg.Broker.Driver).Msg("event publishing disabled")

		return NewNoop()
	}
}

func NewKafka(client kafka.Client, ot otel.Otel) Publisher {
	return &kafkaPublisher{client: client, otel: ot}
}

func NewRabbitMQ(client rabbitmq.Client, ot otel.Otel) Publisher {
	return &rabbitPublisher{client: client, otel: ot}
}

func NewNoop() Publisher {
	return noopPublisher{}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{otelTopicAttribute: topic, otelDriverAttribute: constant.BrokerDriverKafka})

	if err = p.client.SendMessages(ctx, topic, kafka.Message{Key: key, Value: payload}); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}

func (p *rabbitPublisher) Publish(ctx context.Context, topic, _ string, payload any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{otelTopicAttribute: topic, otelDriverAttribute: constant.BrokerDriverRabbitMQ})

	if err = p.client.Publish(ctx, topic, payload); err != nil {
		return fmt.Errorf("failed to publish to rabbitmq: %w", err)
	}

	return nil
}

func (noopPublisher) Publish(_ context.Context, topic, key string, _ any) error {
	log.Debug().Str("topic", topic).Str("key", key).Msg("event dropped, no broker configured")

	return nil
}
