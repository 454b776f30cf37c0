package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func lowStock() transaction.Notification {
	return transaction.Notification{
		Kind:        transaction.NotificationLowStock,
		ProductID:   3,
		ProductName: "Arroz 500g",
		BranchName:  "Centro",
		Stock:       4,
		Threshold:   30,
	}
}

func TestRedisNotifier_PublishesJSON(t *testing.T) {
	p := &fakePublisher{}
	n := NewRedisNotifier(p, "inventory:alerts")

	require.NoError(t, n.Notify(context.Background(), lowStock()))
	assert.Equal(t, "inventory:alerts", p.channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(p.payload, &got))
	assert.Equal(t, "LOW_STOCK", got["kind"])
	assert.Equal(t, "Arroz 500g", got["productName"])
	assert.Equal(t, float64(4), got["stock"])
}

func TestRedisNotifier_PublishError(t *testing.T) {
	p := &fakePublisher{err: errors.New("redis caído")}
	n := NewRedisNotifier(p, "inventory:alerts")

	err := n.Notify(context.Background(), lowStock())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish inventory:alerts")
}

func TestLogNotifier_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.NewWithWriter(&buf, "info"))

	require.NoError(t, n.Notify(context.Background(), lowStock()))
	out := buf.String()
	assert.Contains(t, out, `"kind":"LOW_STOCK"`)
	assert.Contains(t, out, `"branch":"Centro"`)
	assert.Contains(t, out, `"level":"warn"`)
}
