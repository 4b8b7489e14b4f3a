//go:build integration

package kafka_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-engine/pkg/kafka"
	"github.com/bibbank/credit-engine/pkg/testutil"
)

func TestProduceConsumeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kc := testutil.NewKafkaContainer(ctx, t)
	const topic = "credit.repayments.test"
	kc.CreateTopics(t, topic)

	cfg := kafka.Config{Brokers: kc.Brokers, ClientID: "credit-test", ConsumerGroup: "credit-test"}

	producer, err := kafka.NewProducer(cfg)
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, producer.Publish(ctx, topic, kafka.Message{
		Key:     []byte("loan-1"),
		Value:   []byte(`{"loan_id":"loan-1"}`),
		Headers: map[string]string{"message_id": "m-1"},
	}))

	received := make(chan kafka.Message, 1)
	consumer, err := kafka.NewConsumer(cfg, topic, func(_ context.Context, msg kafka.Message) error {
		received <- msg
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer consumer.Close()

	consumeCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- consumer.Start(consumeCtx) }()

	select {
	case msg := <-received:
		assert.Equal(t, "loan-1", string(msg.Key))
		assert.Equal(t, "m-1", msg.Headers["message_id"])
		assert.Equal(t, topic, msg.Topic)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}

	stop()
	assert.NoError(t, <-done)
}
