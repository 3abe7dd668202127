package kafka_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel/mocks"
)

func TestMessageToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:     "property-1",
		Value:   map[string]string{"action": "booking.created"},
		Headers: map[string]string{"entity": "booking"},
	}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("property-1"), out.Key)
	assert.JSONEq(t, `{"action":"booking.created"}`, string(out.Value))
	require.Len(t, out.Headers, 1)
	assert.Equal(t, "entity", out.Headers[0].Key)
	assert.Equal(t, []byte("booking"), out.Headers[0].Value)
}

func TestMessageToKafkaMessageInvalidValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestSendMessagesEmptyIsNoop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}

	client := kafka.New(cfg, mocks.NewOtel())

	assert.NoError(t, client.SendMessages(context.Background(), "innkeep.activity"))
	assert.NoError(t, client.Close())
}
