package rabbitmq_test

import (
	"encoding/json"
	"testing"
	"time"

	"restoran/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	body, err := rabbitmq.Encode("order.created", map[string]interface{}{"orderId": 7}, at)
	require.NoError(t, err)

	ev, err := rabbitmq.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, "order.created", ev.Type)
	assert.True(t, ev.OccurredAt.Equal(at))
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())

	var payload map[string]int
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, 7, payload["orderId"])

	_, err = rabbitmq.Decode([]byte(`{"payload":{}}`))
	assert.Error(t, err)
	_, err = rabbitmq.Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = rabbitmq.Encode("order.created", make(chan int), at)
	assert.Error(t, err)
}

func TestKitchenLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := rabbitmq.KitchenLogger(zap.New(core).Sugar())

	body, err := rabbitmq.Encode("menu.availability_updated", map[string]interface{}{"menuItemId": 3}, time.Now())
	require.NoError(t, err)

	require.NoError(t, handler(amqp.Delivery{RoutingKey: "menu.availability_updated", Body: body}))
	require.NoError(t, handler(amqp.Delivery{RoutingKey: "order.created", Body: []byte("garbage")}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kitchen event", entries[0].Message)
	assert.Equal(t, "dropping kitchen event", entries[1].Message)
}

func TestNilClient(t *testing.T) {
	var c *rabbitmq.Client
	assert.ErrorIs(t, c.Publish("order.created", nil), rabbitmq.ErrNotConnected)
	assert.ErrorIs(t, c.Consume(func(amqp.Delivery) error { return nil }), rabbitmq.ErrNotConnected)
	assert.NoError(t, c.Close())
}
