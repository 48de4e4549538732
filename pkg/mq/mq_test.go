package mq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BookID    uint   `json:"book_id"`
	LibraryID uint   `json:"library_id"`
	Action    string `json:"action"`
}

func TestEncode(t *testing.T) {
	body, err := encode(testEvent{BookID: 1, LibraryID: 2, Action: "classify"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"book_id":1,"library_id":2,"action":"classify"}`, string(body))

	raw := []byte(`{"already":"encoded"}`)
	body, err = encode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, body)

	_, err = encode(make(chan int))
	assert.Error(t, err)
}

// TestPubSub_Integration 需要本地RabbitMQ，设置LIBRARYHUB_TEST_AMQP_URL后运行
func TestPubSub_Integration(t *testing.T) {
	url := os.Getenv("LIBRARYHUB_TEST_AMQP_URL")
	if url == "" {
		t.Skip("LIBRARYHUB_TEST_AMQP_URL not set")
	}

	const exchange = "libraryhub.test.events"

	consumer, err := NewConsumer(url, exchange, "topic", "libraryhub.test.queue", []string{"book.*"})
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := NewPublisher(url, exchange, "topic")
	require.NoError(t, err)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan testEvent, 1)
	go func() {
		_ = consumer.Consume(ctx, func(_ context.Context, body []byte) error {
			var ev testEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				return err
			}
			received <- ev
			return nil
		})
	}()

	require.NoError(t, publisher.Publish(ctx, "book.classify_age", testEvent{BookID: 9, LibraryID: 1, Action: "classify"}))

	select {
	case ev := <-received:
		assert.Equal(t, uint(9), ev.BookID)
	case <-ctx.Done():
		t.Fatal("timeout waiting for message")
	}
}
