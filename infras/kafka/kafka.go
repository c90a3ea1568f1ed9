package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"tablebook/config"
	"tablebook/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 5 * time.Second

// Message is one event. Value is encoded as JSON; Key picks the partition.
type Message struct {
	Key   string
	Value any
}

// Encode renders m as a kafka record carrying a JSON content-type header.
func (m Message) Encode() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode kafka message %q: %w", m.Key, err)
	}

	return kafkaGo.Message{
		Key:     []byte(m.Key),
		Value:   value,
		Headers: []kafkaGo.Header{{Key: constant.RequestHeaderContentType, Value: []byte(constant.ContentTypeJSON)}},
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) error
}

// client keeps one writer per topic for the life of the process.
type client struct {
	brokers   []string
	transport *kafkaGo.Transport

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(cfg *config.Config) Client {
	transport := &kafkaGo.Transport{}

	if sasl := cfg.Broker.Kafka.SASL; sasl.Username != "" {
		transport.SASL = plain.Mechanism{Username: sasl.Username, Password: sasl.Password}
	}

	log.Info().Strs("brokers", cfg.Broker.Kafka.Brokers).Msg("kafka publisher configured")

	return &client{
		brokers:   cfg.Broker.Kafka.Brokers,
		transport: transport,
		writers:   map[string]*kafkaGo.Writer{},
	}
}

func (c *client) writer(topic string) *kafkaGo.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w, ok := c.writers[topic]; ok {
		return w
	}

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(c.brokers...),
		Topic:                  topic,
		Transport:              c.transport,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
		WriteTimeout:           writeTimeout,
	}
	c.writers[topic] = w

	return w
}

func (c *client) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	records := make([]kafkaGo.Message, len(messages))

	for i, message := range messages {
		record, err := message.Encode()
		if err != nil {
			return err
		}

		records[i] = record
	}

	if err := c.writer(topic).WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("failed to write to kafka topic %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("kafka messages written")

	return nil
}
