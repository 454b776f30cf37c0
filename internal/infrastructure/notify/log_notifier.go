// Package notify contiene los sumideros de alertas del motor de transacciones.
package notify

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

var _ transaction.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada alerta como un evento de log. Sumidero por defecto.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el sumidero sobre el logger de la aplicación.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, alert transaction.Notification) error {
	n.log.Warn().
		Str("kind", string(alert.Kind)).
		Int64("product_id", alert.ProductID).
		Str("product", alert.ProductName).
		Str("branch", alert.BranchName).
		Int("stock", alert.Stock).
		Int("threshold", alert.Threshold).
		Msg("alerta de inventario")
	return nil
}
