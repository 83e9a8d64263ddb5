package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhason/aitaskify/internal/models"
)

func TestPublishTrxEvent(t *testing.T) {
	ctx := context.Background()
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	publisher := NewTrxEventPublisher(ch)

	event := models.TrxEvent{
		TransactionID: "trx-1",
		UserID:        "user-1",
		Type:          models.TrxTypeWithdraw,
		Category:      models.CategoryMain,
		Amount:        130,
		Status:        models.StatusApproved,
		OccurredAt:    time.Now().UTC(),
	}

	err = publisher.PublishTrxEvent(event)
	require.NoError(t, err)

	deliveries, err := ch.Consume("trx.notifications", "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got models.TrxEvent
		err := json.Unmarshal(d.Body, &got)
		require.NoError(t, err)
		assert.Equal(t, event.TransactionID, got.TransactionID)
		assert.Equal(t, event.Status, got.Status)
		assert.Equal(t, "application/json", d.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishMessage_MarshalError(t *testing.T) {
	// В json marshal нельзя сериализовать канал
	badMsg := struct {
		Ch chan int `json:"ch"`
	}{
		Ch: make(chan int),
	}

	err := PublishMessage(nil, "", "status", badMsg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
}
