package publisher_test

import (
	"context"
	"errors"
	"tablebook/config"
	"tablebook/infras/kafka"
	kafkaMocks "tablebook/infras/kafka/mocks"
	otelMocks "tablebook/infras/otel/mocks"
	rabbitMocks "tablebook/infras/rabbitmq/mocks"
	"tablebook/shared/publisher"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type event struct {
	ID string `json:"id"`
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	pub := publisher.NewKafka(client, otelMocks.NewOtel())

	client.EXPECT().
		SendMessages(gomock.Any(), "reservation.confirmed", kafka.Message{Key: "b-1", Value: event{ID: "b-1"}}).
		Return(nil)

	assert.NoError(t, pub.Publish(context.Background(), "reservation.confirmed", "b-1", event{ID: "b-1"}))
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	pub := publisher.NewKafka(client, otelMocks.NewOtel())

	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	err := pub.Publish(context.Background(), "reservation.confirmed", "b-1", event{ID: "b-1"})
	assert.ErrorContains(t, err, "broker down")
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := rabbitMocks.NewMockClient(ctrl)
	pub := publisher.NewRabbitMQ(client, otelMocks.NewOtel())

	client.EXPECT().Publish(gomock.Any(), "reservation.confirmed", event{ID: "b-2"}).Return(nil)

	assert.NoError(t, pub.Publish(context.Background(), "reservation.confirmed", "b-2", event{ID: "b-2"}))
}

func TestNew_DefaultsToNoop(t *testing.T) {
	cfg := &config.Config{}

	pub := publisher.New(cfg, otelMocks.NewOtel())

	assert.NoError(t, pub.Publish(context.Background(), "reservation.confirmed", "b-3", event{ID: "b-3"}))
}
