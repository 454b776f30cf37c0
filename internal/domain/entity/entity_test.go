package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

func TestParseTransactionType(t *testing.T) {
	for _, tt := range entity.TransactionTypes {
		got, err := entity.ParseTransactionType(string(tt))
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}

	got, err := entity.ParseTransactionType("  return ")
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeReturn, got)

	_, err = entity.ParseTransactionType("TRANSFER")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
	assert.True(t, domain.IsBadRequest(err))

	_, err = entity.ParseTransactionType("")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestStockMovement_Consistent(t *testing.T) {
	cases := []struct {
		name string
		mov  entity.StockMovement
		want bool
	}{
		{"entrada", entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 5, OldValue: 10, NewValue: 15}, true},
		{"salida", entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 5, OldValue: 10, NewValue: 5}, true},
		{"salida mal sumada", entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 5, OldValue: 10, NewValue: 15}, false},
		{"cantidad cero", entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 0, OldValue: 10, NewValue: 10}, false},
		{"tipo desconocido", entity.StockMovement{Type: "SIDEWAYS", Quantity: 1, OldValue: 1, NewValue: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.mov.Consistent())
		})
	}
}

func TestStockMovement_Delta(t *testing.T) {
	in := entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 4}
	out := entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 4}
	assert.Equal(t, 4, in.Delta())
	assert.Equal(t, -4, out.Delta())
}
