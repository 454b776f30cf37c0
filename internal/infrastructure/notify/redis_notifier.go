package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/redis/go-redis/v9"
)

var _ transaction.Notifier = (*RedisNotifier)(nil)

// publisher subconjunto de *redis.Client usado por el notificador.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publica cada alerta como JSON en un canal pub/sub.
type RedisNotifier struct {
	client  publisher
	channel string
}

// NewRedisNotifier construye el notificador. channel suele ser "inventory:alerts".
func NewRedisNotifier(client publisher, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, alert transaction.Notification) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alerta: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", n.channel, err)
	}
	return nil
}
